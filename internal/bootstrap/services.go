package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/townsquare/townsquare-api/config"
	"github.com/townsquare/townsquare-api/internal/adapters/memstore"
	"github.com/townsquare/townsquare-api/internal/cryptoutil"
	"github.com/townsquare/townsquare-api/internal/ports"
	"github.com/townsquare/townsquare-api/internal/service"
	"github.com/townsquare/townsquare-api/internal/token"
)

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Auth  *service.AuthService
	Users *memstore.UserStore
	// GateVerifier is the restricted-environment verifier the request gate
	// runs. Nil when JWT_SECRET is absent.
	GateVerifier ports.TokenVerifier
}

// ServiceDeps carries the dependencies for service construction.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// NewServices wires the application services. A missing JWT_SECRET is not
// an error here: the services come up with nil token machinery and every
// authenticated path reports the misconfiguration, which is easier to
// diagnose than a crash loop.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	users := memstore.NewUserStore()

	var codec *token.Codec
	var gateVerifier ports.TokenVerifier
	if cfg.Auth.SecretConfigured() {
		ttl := time.Duration(cfg.Auth.TokenTTLSeconds) * time.Second

		var err error
		codec, err = token.NewCodec(token.CodecOptions{Secret: cfg.Auth.JWTSecret, TTL: ttl})
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("build token codec: %w", err)
		}

		edge, err := token.NewEdgeVerifier(token.EdgeVerifierOptions{Secret: cfg.Auth.JWTSecret})
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("build edge verifier: %w", err)
		}
		gateVerifier = edge
	} else {
		logger.Warn("JWT_SECRET is not set; logins and protected routes will fail until it is configured")
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:  users,
		Hasher: cryptoutil.ScryptHasher{},
		Codec:  codec,
		Logger: logger,
	})

	return ServiceContainer{
		Auth:         auth,
		Users:        users,
		GateVerifier: gateVerifier,
	}, nil
}
