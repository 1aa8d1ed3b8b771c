// seed_admin crea el primer usuario con rol Administrador.
//
// Uso: go run ./cmd/seed_admin -email admin@elaia.co -password secreto [-first Ada -last Admin]
// Si el email ya existe no hace nada.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/application/usecase"
	"github.com/jhoicas/elaia-api/internal/domain"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
	"github.com/jhoicas/elaia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/elaia-api/pkg/config"
	"github.com/jhoicas/elaia-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del administrador")
	password := flag.String("password", "", "password (mínimo 6 caracteres)")
	first := flag.String("first", "Administrador", "nombre")
	last := flag.String("last", "ELAIA", "apellido")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		fmt.Fprintln(os.Stderr, "uso: seed_admin -email <email> -password <mínimo 6 caracteres>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_admin")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	roles := postgres.NewRoleRepository(pool)
	role, err := roles.GetByName(ctx, entity.RoleAdmin, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar rol")
	}
	if role == nil {
		log.Fatal().Msg("no existe el rol Administrador; ejecute las migraciones primero")
	}

	users := usecase.NewUserUseCase(postgres.NewUserRepository(pool), roles)
	out, err := users.Create(ctx, dto.CreateUserRequest{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Password:  *password,
		RoleID:    role.ID,
	})
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Info().Str("email", *email).Msg("el usuario ya existe, nada que hacer")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Int64("id", out.ID).Str("email", out.Email).Msg("administrador creado")
	}
}
