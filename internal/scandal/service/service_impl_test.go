package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	institutionrepo "github.com/wananchi-labs/uwazi/internal/institution/repository"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	nomineerepo "github.com/wananchi-labs/uwazi/internal/nominee/repository"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"github.com/wananchi-labs/uwazi/internal/scandal/domain"
	"github.com/wananchi-labs/uwazi/internal/scandal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	genID   *snowflake.Node
	service domain.Service

	nomineeID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&nomineedomain.Nominee{},
		&institutiondomain.Institution{},
		&domain.Scandal{},
		&domain.Evidence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repository.Provide(),
		Nominees:     nomineerepo.Provide(),
		Institutions: institutionrepo.Provide(),
	})

	nominee := nomineedomain.Nominee{
		ID:     node.Generate(),
		Name:   "Test Nominee",
		Slug:   "test-nominee",
		Status: nomineedomain.StatusActive,
	}
	require.NoError(t, db.Create(&nominee).Error)

	return &fixture{
		db:        db,
		genID:     node,
		service:   svc,
		nomineeID: nominee.ID.String(),
	}
}

func TestCreateScandal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	amount := 2_500_000.0
	scandal, err := f.service.Create(ctx, domain.CreateRequest{
		TargetType:  ratingdomain.TargetNominee,
		TargetID:    f.nomineeID,
		Title:       "Road tender inflation",
		Description: "Tender awarded at triple market rate.",
		AmountKES:   &amount,
		Year:        2024,
		SourceURL:   "https://example.org/report",
		Tags:        []string{" Procurement ", "", "Tender"},
	})
	require.NoError(t, err)
	assert.NotZero(t, scandal.ID)
	assert.Equal(t, "Road tender inflation", scandal.Title)
	// Tags are trimmed, lowercased, empties dropped.
	assert.Equal(t, []string{"procurement", "tender"}, []string(scandal.Tags))

	scandals, err := f.service.ListForTarget(ctx, ratingdomain.TargetNominee, f.nomineeID)
	require.NoError(t, err)
	require.Len(t, scandals, 1)
	assert.Equal(t, []string{"procurement", "tender"}, []string(scandals[0].Tags))
}

func TestCreateScandalValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.nomineeID,
		Title:      "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.genID.Generate().String(),
		Title:      "Unknown target",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetInstitution,
		TargetID:   f.nomineeID,
		Title:      "Wrong target type",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestUpdateScandalPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	scandal, err := f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.nomineeID,
		Title:      "Original title",
		Year:       2020,
		Tags:       []string{"land"},
	})
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, domain.UpdateRequest{
		ID:    scandal.ID.String(),
		Title: "Corrected title",
	})
	require.NoError(t, err)
	assert.Equal(t, "Corrected title", updated.Title)
	// Untouched fields survive a partial update.
	assert.Equal(t, 2020, updated.Year)
	assert.Equal(t, []string{"land"}, []string(updated.Tags))

	updated, err = f.service.Update(ctx, domain.UpdateRequest{
		ID:   scandal.ID.String(),
		Tags: []string{"land", "title deeds"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"land", "title deeds"}, []string(updated.Tags))
}

func TestEvidenceLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	scandal, err := f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.nomineeID,
		Title:      "Ghost workers",
	})
	require.NoError(t, err)

	_, err = f.service.AddEvidence(ctx, domain.AddEvidenceRequest{
		ScandalID: scandal.ID.String(),
		URL:       "not a url",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidURL)

	withEvidence, err := f.service.AddEvidence(ctx, domain.AddEvidenceRequest{
		ScandalID: scandal.ID.String(),
		Title:     "Audit report",
		URL:       "https://example.org/audit.pdf",
	})
	require.NoError(t, err)
	// Mutations hand back the refreshed scandal with its target identity so
	// callers can drop cached views for that nominee or institution.
	assert.Equal(t, scandal.ID, withEvidence.ID)
	assert.Equal(t, ratingdomain.TargetNominee, withEvidence.TargetType)
	require.Len(t, withEvidence.Evidence, 1)
	evidence := withEvidence.Evidence[0]
	assert.Equal(t, "link", evidence.Kind, "kind defaults to link")

	scandals, err := f.service.ListForTarget(ctx, ratingdomain.TargetNominee, f.nomineeID)
	require.NoError(t, err)
	require.Len(t, scandals, 1)
	require.Len(t, scandals[0].Evidence, 1)
	assert.Equal(t, evidence.ID, scandals[0].Evidence[0].ID)

	cleared, err := f.service.RemoveEvidence(ctx, evidence.ID.String())
	require.NoError(t, err)
	assert.Equal(t, scandal.ID, cleared.ID)
	assert.Empty(t, cleared.Evidence)

	_, err = f.service.RemoveEvidence(ctx, evidence.ID.String())
	assert.ErrorIs(t, err, domain.ErrEvidenceMissing)
}

func TestDeleteScandalCascadesEvidence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	scandal, err := f.service.Create(ctx, domain.CreateRequest{
		TargetType: ratingdomain.TargetNominee,
		TargetID:   f.nomineeID,
		Title:      "To be removed",
	})
	require.NoError(t, err)

	_, err = f.service.AddEvidence(ctx, domain.AddEvidenceRequest{
		ScandalID: scandal.ID.String(),
		URL:       "https://example.org/source",
	})
	require.NoError(t, err)

	removed, err := f.service.Delete(ctx, scandal.ID.String())
	require.NoError(t, err)
	assert.Equal(t, ratingdomain.TargetNominee, removed.TargetType)
	assert.Equal(t, f.nomineeID, removed.TargetID.String())

	var evidenceCount int64
	require.NoError(t, f.db.Model(&domain.Evidence{}).Count(&evidenceCount).Error)
	assert.Zero(t, evidenceCount)

	_, err = f.service.Delete(ctx, scandal.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteByTargetRemovesScandalsAndEvidence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, title := range []string{"First case", "Second case"} {
		scandal, err := f.service.Create(ctx, domain.CreateRequest{
			TargetType: ratingdomain.TargetNominee,
			TargetID:   f.nomineeID,
			Title:      title,
		})
		require.NoError(t, err)

		_, err = f.service.AddEvidence(ctx, domain.AddEvidenceRequest{
			ScandalID: scandal.ID.String(),
			URL:       "https://example.org/source",
		})
		require.NoError(t, err)
	}

	nomineeID, err := snowflake.ParseString(f.nomineeID)
	require.NoError(t, err)
	require.NoError(t, repository.Provide().DeleteByTarget(ctx, f.db, ratingdomain.TargetNominee, nomineeID))

	var scandalCount, evidenceCount int64
	require.NoError(t, f.db.Model(&domain.Scandal{}).Count(&scandalCount).Error)
	require.NoError(t, f.db.Model(&domain.Evidence{}).Count(&evidenceCount).Error)
	assert.Zero(t, scandalCount)
	assert.Zero(t, evidenceCount)
}
