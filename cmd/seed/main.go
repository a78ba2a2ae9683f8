// Command seed populates the database with a demo project and submissions.
package main

import (
	"flag"
	"log"

	"centerstage/internal/bootstrap"
	"centerstage/internal/config"
	"centerstage/internal/seed"
)

func main() {
	name := flag.String("name", "Demo Night", "demo project name")
	count := flag.Int("count", 40, "number of submissions to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	f := seed.NewFactory(db, seed.Options{
		ProjectName: *name,
		Submissions: *count,
	})
	if err := f.Demo(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
