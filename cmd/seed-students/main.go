package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

type seedProgram struct {
	level   model.Level
	program string
	status  model.Status
}

var programs = []seedProgram{
	{model.LevelUndergraduate, "Computer Science", model.StatusInProgress},
	{model.LevelGraduate, "Applied Mathematics", model.StatusApplied},
	{model.LevelCertificate, "Data Science", model.StatusAwarded},
	{model.LevelUndergraduate, "History", model.StatusWithdrawn},
	{model.LevelGraduate, "Public Policy", model.StatusInProgress},
}

var names = []string{
	"Ada Lovelace", "Alan Turing", "Grace Hopper", "Katherine Johnson", "Edsger Dijkstra",
	"Barbara Liskov", "Donald Knuth", "Margaret Hamilton", "Ken Thompson", "Frances Allen",
	"John McCarthy", "Radia Perlman", "Dennis Ritchie", "Shafi Goldwasser", "Leslie Lamport",
	"Adele Goldberg", "Niklaus Wirth", "Jean Sammet", "Tony Hoare", "Sophie Wilson",
}

func main() {
	count := flag.Int("n", len(names), "Number of students to create")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	studentRepo, closeStore, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to database")
	}
	defer closeStore()

	studentService := service.NewStudentService(studentRepo, log)

	n := *count
	if n > len(names) {
		n = len(names)
	}
	fmt.Printf("=== Seeding %d Students (%s) ===\n", n, cfg.StoreDriver)

	successCount := 0
	for i := 0; i < n; i++ {
		// Every student gets one program, every third student a second one.
		picks := []seedProgram{programs[i%len(programs)]}
		if i%3 == 0 {
			picks = append(picks, programs[(i+2)%len(programs)])
		}
		forms := make([]model.ProgramForm, 0, len(picks))
		for _, p := range picks {
			forms = append(forms, model.ProgramForm{
				Level:   string(p.level),
				Program: p.program,
				Status:  string(p.status),
			})
		}

		_, err := studentService.Create(ctx, model.StudentForm{
			Name:  names[i],
			HUID:  fmt.Sprintf("%08d", 40000000+i+1),
			Email: fmt.Sprintf("student%02d@college.example.edu", i+1),
		}, forms...)
		if err != nil {
			fmt.Printf("Error creating student %s: %v\n", names[i], err)
			continue
		}

		successCount++
		if (i+1)%5 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, n)
}
