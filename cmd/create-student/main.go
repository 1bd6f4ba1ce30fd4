package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// ─── Connect Student Store ─────────────────────────────────────────
	studentRepo, closeStore, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to database")
	}
	defer closeStore()

	studentService := service.NewStudentService(studentRepo, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	// Prompts are only printed for an interactive terminal so the command
	// can also read a piped answer file.
	p := &prompter{
		in:          bufio.NewReader(os.Stdin),
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}

	if p.interactive {
		fmt.Println("=== Create New Student ===")
	}

	form := model.StudentForm{
		Name:  p.ask("Enter Name: "),
		HUID:  p.ask("Enter HUID: "),
		Email: p.ask("Enter Email: "),
	}

	program := model.ProgramForm{
		Level:   p.ask(fmt.Sprintf("Enter Level %v (blank to skip): ", model.Levels)),
		Program: p.ask("Enter Program: "),
		Status:  p.ask(fmt.Sprintf("Enter Status %v: ", model.Statuses)),
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	// Student and program are stored together or not at all.
	student, err := studentService.Create(ctx, form, program)
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("\nSuccess! Student '%s' (%s) created with ID: %s\n", student.Name, student.Email, student.ID)
	for _, a := range student.Academics {
		fmt.Printf("  - %s\n", a)
	}
}

type prompter struct {
	in          *bufio.Reader
	interactive bool
}

// ask prints the prompt on a terminal and returns the next trimmed line.
// EOF yields an empty answer.
func (p *prompter) ask(prompt string) string {
	if p.interactive {
		fmt.Print(prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	return strings.TrimSpace(line)
}

func exitWithError(err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintln(os.Stderr, "Error: invalid student")
		for _, msg := range ve.Messages() {
			fmt.Fprintf(os.Stderr, "  - %s\n", msg)
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
