package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"aegisaccounts/backend/internal/database"
	"aegisaccounts/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Setup interativo: conecta, migra e cria o primeiro usuário administrador.
// O admin nasce habilitado; o fluxo de verificação por e-mail é para
// auto-registro, não para bootstrap.
func main() {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("--- Aegis Accounts Setup ---")

	fmt.Println("\n--- Database Configuration ---")
	fmt.Print("Enter Database Host (e.g., localhost or 'db' if using docker-compose): ")
	dbHost := readLine(reader)

	fmt.Print("Enter Database Port (e.g., 5432): ")
	dbPort := readLine(reader)

	fmt.Print("Enter Database User: ")
	dbUser := readLine(reader)

	fmt.Print("Enter Database Password: ")
	dbPassword := readLine(reader)

	fmt.Print("Enter Database Name: ")
	dbName := readLine(reader)

	fmt.Print("Enter Database SSL Mode (e.g., disable, require): ")
	dbSSLMode := readLine(reader)

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	if err := database.ConnectDB(dsn); err != nil {
		log.Fatalf("Failed to connect to database during setup: %v", err)
	}
	fmt.Println("Successfully connected to the database.")

	if err := database.MigrateDB(); err != nil {
		log.Fatalf("Failed to run database migrations during setup: %v", err)
	}
	fmt.Println("Database migrations completed successfully.")

	fmt.Println("\n--- Admin User Setup ---")
	fmt.Print("Enter Admin User Name: ")
	adminName := readLine(reader)

	fmt.Print("Enter Admin User Email: ")
	adminEmail := readLine(reader)

	fmt.Print("Enter Admin User Password: ")
	adminPassword := readLine(reader)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password during setup: %v", err)
	}

	adminUser := models.User{
		Name:         adminName,
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Enabled:      true,
		Role:         models.RoleAdmin,
	}

	db := database.GetDB()
	if err := db.Create(&adminUser).Error; err != nil {
		log.Fatalf("Failed to create admin user during setup: %v", err)
	}
	fmt.Printf("Admin user '%s' created successfully.\n", adminUser.Email)

	fmt.Println("\n--- Setup Complete ---")
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
