package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"pilot-pulse/internal/config"
	"pilot-pulse/internal/service"
)

// pulse_token emite un access token para un respondente o un lector del dashboard.
func main() {
	uid := flag.String("uid", "", "id del usuario; vacio genera uno nuevo")
	role := flag.String("role", "", "rol del respondente (SME, BUILDER, ...)")
	ttl := flag.Duration("ttl", 0, "vigencia del token; 0 usa JWT_ACCESS_TTL")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	token, err := issue(cfg, *uid, *role, *ttl)
	if err != nil {
		log.Printf("pulse token: %v", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func issue(cfg *config.Config, uid, role string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}
	if strings.TrimSpace(role) == "" {
		return "", fmt.Errorf("-role is required")
	}
	if uid == "" {
		uid = uuid.NewString()
	}
	if ttl <= 0 {
		ttl = cfg.JWTAccessTTL
	}
	return service.NewJWTService(cfg.JWTSecret, ttl).GenerateAccessToken(uid, role)
}
