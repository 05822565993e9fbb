package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/license"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/FarmHub-api/pkg/config"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

const commandTimeout = 30 * time.Second

// systemScope alcance con el que actúa la CLI: super_admin sin sucursal seleccionada.
var systemScope = &access.Scope{UserID: "farmhubctl", Role: entity.RoleSuperAdmin}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "farmhubctl",
		Short:         "Administración de una instalación de FarmHub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd(), bootstrapCmd(), branchCmd(), licenseCmd())
	return cmd
}

// withPool carga la configuración, abre el pool y aplica las migraciones antes de fn.
func withPool(cmd *cobra.Command, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cfg.App.LogLevel,
		Output: cmd.ErrOrStderr(),
	}))
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migraciones: %w", err)
	}
	return fn(ctx, pool)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema de base de datos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(context.Context, *pgxpool.Pool) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "esquema al día")
				return err
			})
		},
	}
}

func bootstrapCmd() *cobra.Command {
	var (
		email, password, name string
		branchName, location  string
		farmType              string
		trialDays             int
	)
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Crea el super_admin inicial y, opcionalmente, la primera sucursal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				users := postgres.NewUserRepository(pool)
				branches := postgres.NewBranchRepository(pool)
				out := cmd.OutOrStdout()

				userUC := usecase.NewUserUseCase(users, branches)
				admin, err := userUC.Create(ctx, systemScope, dto.CreateUserRequest{
					Email:    email,
					Password: password,
					Name:     name,
					Role:     entity.RoleSuperAdmin.String(),
				})
				switch {
				case errors.Is(err, domain.ErrEmailAlreadyExists):
					fmt.Fprintf(out, "el usuario %s ya existe\n", email)
				case err != nil:
					return fmt.Errorf("crear super_admin: %w", err)
				default:
					fmt.Fprintf(out, "super_admin creado: %s (%s)\n", admin.Email, admin.ID)
				}

				if branchName != "" {
					branchUC := usecase.NewBranchUseCase(branches, users, postgres.NewCustomerRepository(pool))
					b, err := branchUC.Create(ctx, systemScope, dto.CreateBranchRequest{
						Name:     branchName,
						Location: location,
						FarmType: farmType,
					})
					if err != nil {
						return fmt.Errorf("crear sucursal: %w", err)
					}
					fmt.Fprintf(out, "sucursal creada: %s (%s)\n", b.Name, b.ID)
				}

				created, err := license.NewUseCase(postgres.NewLicenseRepository(pool), trialDays).EnsureTrial(ctx)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(out, "licencia de prueba de %d días creada\n", trialDays)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del super_admin")
	cmd.Flags().StringVar(&password, "password", "", "contraseña del super_admin (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&name, "name", "Administrador", "nombre del super_admin")
	cmd.Flags().StringVar(&branchName, "branch", "", "nombre de la primera sucursal (opcional)")
	cmd.Flags().StringVar(&location, "location", "", "ubicación de la sucursal")
	cmd.Flags().StringVar(&farmType, "farm-type", entity.FarmTypeMixed, "tipo de explotación de la sucursal")
	cmd.Flags().IntVar(&trialDays, "trial-days", 30, "días de la licencia de prueba si no existe ninguna (0 = no crear)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func branchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Gestión de sucursales",
	}

	var in dto.CreateBranchRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea una sucursal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				uc := usecase.NewBranchUseCase(
					postgres.NewBranchRepository(pool),
					postgres.NewUserRepository(pool),
					postgres.NewCustomerRepository(pool),
				)
				b, err := uc.Create(ctx, systemScope, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), b)
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "nombre")
	create.Flags().StringVar(&in.Location, "location", "", "ubicación")
	create.Flags().StringVar(&in.FarmType, "farm-type", entity.FarmTypeMixed, "crops|livestock|mixed|poultry|dairy|aquaculture")
	create.Flags().StringVar(&in.Size, "size", "", "tamaño (texto libre)")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("location")

	list := &cobra.Command{
		Use:   "list",
		Short: "Lista las sucursales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				uc := usecase.NewBranchUseCase(
					postgres.NewBranchRepository(pool),
					postgres.NewUserRepository(pool),
					postgres.NewCustomerRepository(pool),
				)
				out, err := uc.List(ctx, systemScope, dto.PageRequest{Limit: 100})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}

func licenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Licencia de la instalación",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de la licencia",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				out, err := license.NewUseCase(postgres.NewLicenseRepository(pool), 0).Status(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	var purchase dto.PurchaseLicenseRequest
	buy := &cobra.Command{
		Use:   "purchase",
		Short: "Reemplaza la licencia por una nueva",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				out, err := license.NewUseCase(postgres.NewLicenseRepository(pool), 0).Purchase(ctx, purchase)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	buy.Flags().StringVar(&purchase.PlanType, "plan", "basic", "trial|basic|professional|enterprise")
	buy.Flags().IntVar(&purchase.DurationDays, "days", 365, "duración en días")

	var renew dto.RenewLicenseRequest
	extend := &cobra.Command{
		Use:   "renew",
		Short: "Extiende la licencia actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool) error {
				out, err := license.NewUseCase(postgres.NewLicenseRepository(pool), 0).Renew(ctx, renew)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	extend.Flags().IntVar(&renew.DurationDays, "days", 365, "días a añadir")

	cmd.AddCommand(status, buy, extend)
	return cmd
}
