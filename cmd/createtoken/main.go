package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"axiapac.com/adms/security"
	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret, err := security.DecodeSecret(os.Getenv("ADMS_SIGNING_SECRET"))
	if err != nil {
		log.Fatal(err)
	}

	token, err := security.CreateAdminToken(*subject, secret, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
