// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
)

// flags are the command line flags for the zoom proxy service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the zoom proxy service.
type environment struct {
	Port               string
	DatabaseURL        string
	DBMaxConns         int32
	NatsURL            string
	CORSAllowedOrigins []string
	Zoom               zoomConfig
	JWT                jwtConfig
}

// zoomConfig holds the Server-to-Server OAuth app credentials.
type zoomConfig struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	AuthURL      string
	UserID       string
}

type jwtConfig struct {
	JWKSURL            string
	Audience           string
	Issuer             string
	MockLocalPrincipal string
}

// parseFlags parses command line flags for the zoom proxy service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// newEnvReader binds every setting to its environment variable and default.
func newEnvReader() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("ZOOM_API_BASE_URL", "https://api.zoom.us/v2")
	v.SetDefault("ZOOM_AUTH_URL", "https://zoom.us/oauth/token")
	v.SetDefault("ZOOM_USER_ID", "me")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	return v
}

// parseEnv reads the environment and fails when a required setting is missing.
func parseEnv() (environment, error) {
	v := newEnvReader()

	env := environment{
		Port:               v.GetString("PORT"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DBMaxConns:         v.GetInt32("DB_MAX_CONNS"),
		NatsURL:            v.GetString("NATS_URL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Zoom: zoomConfig{
			AccountID:    v.GetString("ZOOM_ACCOUNT_ID"),
			ClientID:     v.GetString("ZOOM_CLIENT_ID"),
			ClientSecret: v.GetString("ZOOM_CLIENT_SECRET"),
			APIBaseURL:   v.GetString("ZOOM_API_BASE_URL"),
			AuthURL:      v.GetString("ZOOM_AUTH_URL"),
			UserID:       v.GetString("ZOOM_USER_ID"),
		},
		JWT: jwtConfig{
			JWKSURL:            v.GetString("JWKS_URL"),
			Audience:           v.GetString("JWT_AUDIENCE"),
			Issuer:             v.GetString("JWT_ISSUER"),
			MockLocalPrincipal: v.GetString("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"),
		},
	}

	var missing []string
	for name, value := range map[string]string{
		"DATABASE_URL":       env.DatabaseURL,
		"ZOOM_ACCOUNT_ID":    env.Zoom.AccountID,
		"ZOOM_CLIENT_ID":     env.Zoom.ClientID,
		"ZOOM_CLIENT_SECRET": env.Zoom.ClientSecret,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return env, fmt.Errorf("%w: %s", errMissingEnv, strings.Join(missing, ", "))
	}

	return env, nil
}

var errMissingEnv = errors.New("required environment variables are not set")

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
