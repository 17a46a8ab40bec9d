package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/pickleball-league/internal/interfaces/cli"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("app/.env")
	os.Exit(int(cli.Run()))
}
