package main

import (
	"log"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/eringen/kudos"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := kudos.Config{
		SiteURL:       strings.TrimSuffix(kudos.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Addr:          kudos.EnvOr("ADDR", ":3000"),
		CORSOrigins:   splitOrigins(kudos.EnvOr("CORS_ORIGINS", "")),
		ContentDir:    kudos.EnvOr("CONTENT_DIR", "content"),
		GistToken:     kudos.EnvOr("GIST_TOKEN", ""),
		GistID:        kudos.EnvOr("GIST_ID", ""),
		GistFilename:  kudos.EnvOr("GIST_FILENAME", "likes.json"),
		RedisAddr:     kudos.EnvOr("REDIS_ADDR", ""),
		RedisPassword: kudos.EnvOr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		RedisKey:      kudos.EnvOr("REDIS_KEY", "kudos:likes"),
		LocalDBPath:   kudos.EnvOr("LIKES_DB_PATH", ""),
		AdminPassword: kudos.EnvOr("ADMIN_PASSWORD", ""),
		SessionSecret: kudos.EnvOr("ADMIN_SESSION_SECRET", ""),
		CookieSecure:  strings.EqualFold(kudos.EnvOr("COOKIE_SECURE", ""), "true"),
	}

	app := kudos.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatalf("kudos: %v", err)
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func envInt(key string, fallback int) int {
	v := kudos.EnvOr(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, fallback)
		return fallback
	}
	return n
}
