package main

import (
	"log"

	"github.com/kambaz-lms/quiz-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
