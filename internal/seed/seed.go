package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	referencedomain "github.com/wananchi-labs/uwazi/internal/reference/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type categorySpec struct {
	name     string
	icon     string
	weight   float64
	examples string
}

var defaultCategories = []categorySpec{
	{"Bribery", "money", 1, `["Demanding kickbacks for tenders","Cash for services that should be free"]`},
	{"Embezzlement", "bank", 1.5, `["Diverting public funds","Ghost projects"]`},
	{"Nepotism", "users", 1, `["Hiring relatives into public office","Tribal favoritism in appointments"]`},
	{"Abuse of Office", "shield", 1, `["Using state resources for campaigns","Intimidating whistleblowers"]`},
	{"Electoral Fraud", "vote", 1, `["Voter bribery","Manipulating tallies"]`},
	{"Land Grabbing", "map", 1.5, `["Irregular allocation of public land","Evicting residents without due process"]`},
}

var defaultPositions = []referencedomain.Position{
	{Title: "President", Level: "national"},
	{Title: "Governor", Level: "county"},
	{Title: "Senator", Level: "county"},
	{Title: "Member of Parliament", Level: "constituency"},
	{Title: "Cabinet Secretary", Level: "national"},
	{Title: "Member of County Assembly", Level: "ward"},
}

var defaultDistricts = []referencedomain.District{
	{Name: "Nairobi", Region: "Nairobi"},
	{Name: "Mombasa", Region: "Coast"},
	{Name: "Kisumu", Region: "Nyanza"},
	{Name: "Nakuru", Region: "Rift Valley"},
	{Name: "Eldoret", Region: "Rift Valley"},
	{Name: "Garissa", Region: "North Eastern"},
}

// EnsureDefaults seeds rating categories, positions and districts so a fresh
// install serves meaningful data immediately. Existing rows are left alone.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategories(ctx, tx, node); err != nil {
			return err
		}
		if err := ensurePositions(ctx, tx, node); err != nil {
			return err
		}
		return ensureDistricts(ctx, tx, node)
	})
}

func ensureCategories(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, spec := range defaultCategories {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&ratingdomain.RatingCategory{}).
			Where("name = ?", spec.name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		category := ratingdomain.RatingCategory{
			ID:       node.Generate(),
			Name:     spec.name,
			Icon:     spec.icon,
			Weight:   spec.weight,
			Examples: datatypes.JSON(spec.examples),
		}
		if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensurePositions(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, p := range defaultPositions {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&referencedomain.Position{}).
			Where("title = ?", p.Title).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		p.ID = node.Generate()
		if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureDistricts(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, d := range defaultDistricts {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&referencedomain.District{}).
			Where("name = ?", d.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		d.ID = node.Generate()
		if err := tx.WithContext(ctx).Create(&d).Error; err != nil {
			return err
		}
	}
	return nil
}
