package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/foodgram/foodgram-backend/internal/types"
  "github.com/foodgram/foodgram-backend/internal/utils"
  "github.com/foodgram/foodgram-backend/internal/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "foodgram", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
    TranslateError: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Tag{},
    &types.Ingredient{},
    &types.Recipe{},
    &types.RecipeIngredient{},
    &types.RecipeTag{},
    &types.Favorite{},
    &types.ShoppingCart{},
    &types.Subscription{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  s.log.Info("Configuring foreign key relationships for postgres tables...")
  return ApplyCascadeConstraints(s.db)
}

// ApplyCascadeConstraints installs the ON DELETE CASCADE foreign keys. The
// test harness calls it too, so delete-cascade behavior is the same in both
// schemas.
func ApplyCascadeConstraints(db *gorm.DB) error {
  for _, constraint := range cascadeConstraints {
    if err := db.Exec(constraint.sql).Error; err != nil {
      return fmt.Errorf("Failed to add %s: %w", constraint.name, err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

// Deleting a recipe must take its line items, tag links and membership
// markers with it; deleting a user takes everything the user owns.
var cascadeConstraints = []struct {
  name string
  sql  string
}{
  {"fk_user_token_user_id", `
    ALTER TABLE "user_token"
    DROP CONSTRAINT IF EXISTS "fk_user_token_user_id",
    ADD CONSTRAINT "fk_user_token_user_id"
    FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE
  `},
  {"fk_recipe_author_id", `
    ALTER TABLE "recipe"
    DROP CONSTRAINT IF EXISTS "fk_recipe_author_id",
    ADD CONSTRAINT "fk_recipe_author_id"
    FOREIGN KEY ("author_id") REFERENCES "user"("id") ON DELETE CASCADE
  `},
  {"fk_recipe_ingredient_recipe_id", `
    ALTER TABLE "recipe_ingredient"
    DROP CONSTRAINT IF EXISTS "fk_recipe_ingredient_recipe_id",
    ADD CONSTRAINT "fk_recipe_ingredient_recipe_id"
    FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE
  `},
  {"fk_recipe_ingredient_ingredient_id", `
    ALTER TABLE "recipe_ingredient"
    DROP CONSTRAINT IF EXISTS "fk_recipe_ingredient_ingredient_id",
    ADD CONSTRAINT "fk_recipe_ingredient_ingredient_id"
    FOREIGN KEY ("ingredient_id") REFERENCES "ingredient"("id") ON DELETE CASCADE
  `},
  {"fk_recipe_tag_recipe_id", `
    ALTER TABLE "recipe_tag"
    DROP CONSTRAINT IF EXISTS "fk_recipe_tag_recipe_id",
    ADD CONSTRAINT "fk_recipe_tag_recipe_id"
    FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE
  `},
  {"fk_recipe_tag_tag_id", `
    ALTER TABLE "recipe_tag"
    DROP CONSTRAINT IF EXISTS "fk_recipe_tag_tag_id",
    ADD CONSTRAINT "fk_recipe_tag_tag_id"
    FOREIGN KEY ("tag_id") REFERENCES "tag"("id") ON DELETE CASCADE
  `},
  {"fk_favorite_user_id", `
    ALTER TABLE "favorite"
    DROP CONSTRAINT IF EXISTS "fk_favorite_user_id",
    ADD CONSTRAINT "fk_favorite_user_id"
    FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE
  `},
  {"fk_favorite_recipe_id", `
    ALTER TABLE "favorite"
    DROP CONSTRAINT IF EXISTS "fk_favorite_recipe_id",
    ADD CONSTRAINT "fk_favorite_recipe_id"
    FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE
  `},
  {"fk_shopping_cart_user_id", `
    ALTER TABLE "shopping_cart"
    DROP CONSTRAINT IF EXISTS "fk_shopping_cart_user_id",
    ADD CONSTRAINT "fk_shopping_cart_user_id"
    FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE
  `},
  {"fk_shopping_cart_recipe_id", `
    ALTER TABLE "shopping_cart"
    DROP CONSTRAINT IF EXISTS "fk_shopping_cart_recipe_id",
    ADD CONSTRAINT "fk_shopping_cart_recipe_id"
    FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE
  `},
  {"fk_subscription_user_id", `
    ALTER TABLE "subscription"
    DROP CONSTRAINT IF EXISTS "fk_subscription_user_id",
    ADD CONSTRAINT "fk_subscription_user_id"
    FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE
  `},
  {"fk_subscription_author_id", `
    ALTER TABLE "subscription"
    DROP CONSTRAINT IF EXISTS "fk_subscription_author_id",
    ADD CONSTRAINT "fk_subscription_author_id"
    FOREIGN KEY ("author_id") REFERENCES "user"("id") ON DELETE CASCADE
  `},
}
