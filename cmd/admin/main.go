// Command admin is a break-glass CLI for operators with database access.
// It talks to PostgreSQL directly, so status changes made here are not
// pushed to live tracking views; citizens pick them up on their next
// fetch or reconnect.
package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civiport/backend/internal/complaint"
	"civiport/backend/internal/models"
	"civiport/backend/internal/status"
	"civiport/backend/internal/storage"
)

// noBroadcast satisfies the service's Broadcaster without a running hub.
type noBroadcast struct{}

func (noBroadcast) Broadcast(models.StatusChangeEvent) {}

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	svc := complaint.NewService(storageSvc, noBroadcast{}, nil)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "set-status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-status <complaint_id> <status>")
			os.Exit(1)
		}
		updated, err := svc.UpdateStatus(os.Args[2], status.Status(os.Args[3]))
		if err != nil {
			log.Fatalf("Error updating status: %v", err)
		}
		fmt.Printf("Complaint %s is now %s.\n", updated.ID, updated.Status)

	case "list":
		filter := storage.ComplaintFilter{}
		if len(os.Args) > 2 {
			filter.Status = status.Status(os.Args[2])
		}
		complaints, err := svc.ListAll(filter)
		if err != nil {
			log.Fatalf("Error listing complaints: %v", err)
		}
		for _, c := range complaints {
			fmt.Printf("%s  %-18s %s / %s\n", c.ID, c.Status, c.Category, c.Subcategory)
		}

	case "export":
		if err := svc.ExportCSV(os.Stdout, storage.ComplaintFilter{}); err != nil {
			log.Fatalf("Error exporting complaints: %v", err)
		}

	case "promote":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin promote <user_id>")
			os.Exit(1)
		}
		user, err := storageSvc.GetUserByID(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading user: %v", err)
		}
		user.Role = models.RoleAdmin
		if err := storageSvc.SaveUser(user); err != nil {
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now an administrator.\n", user.ID)

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
