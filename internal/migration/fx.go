package migration

import (
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	"github.com/wananchi-labs/uwazi/internal/config"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	referencedomain "github.com/wananchi-labs/uwazi/internal/reference/domain"
	scandaldomain "github.com/wananchi-labs/uwazi/internal/scandal/domain"
	"github.com/wananchi-labs/uwazi/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The versioned SQL targets PostgreSQL; other dialects are for
			// local development and derive the schema from the models.
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}
		return seed.EnsureDefaults(conn)
	}),
)

// AutoMigrate derives the schema from the gorm models.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&ratingdomain.RatingCategory{},
		&referencedomain.Position{},
		&referencedomain.District{},
		&nomineedomain.Nominee{},
		&institutiondomain.Institution{},
		&ratingdomain.Rating{},
		&commentdomain.Comment{},
		&commentdomain.CommentReaction{},
		&scandaldomain.Scandal{},
		&scandaldomain.Evidence{},
	)
}
