// cmd/create-user/main.go creates an applicant or admin account.
package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"funding-application-api/config"
	"funding-application-api/models"
	"funding-application-api/utils"

	"github.com/google/uuid"
)

func main() {
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "plain-text password")
	name := flag.String("name", "", "full name")
	role := flag.String("role", models.RoleUser, "user or admin")
	flag.Parse()

	addr := strings.ToLower(utils.SanitizeInput(*email))
	if !utils.ValidateEmail(addr) {
		log.Fatalf("invalid email %q", *email)
	}
	if ok, msg := utils.ValidatePassword(*password); !ok {
		log.Fatal(msg)
	}
	if *role != models.RoleUser && *role != models.RoleAdmin {
		log.Fatalf("invalid role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer config.CloseDB(db)

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()
	user := models.User{
		UserID:    uuid.NewString(),
		Email:     addr,
		Password:  hashed,
		FullName:  utils.SanitizeInput(*name),
		Role:      *role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create user:", err)
	}
	log.Printf("Created %s %s (%s)\n", user.Role, user.Email, user.UserID)
}
