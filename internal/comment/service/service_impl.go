package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/comment/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxContentLength = 4000

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("comment.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Comment, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.Comment{}, domain.ErrInvalidUser
	}

	content := strings.TrimSpace(req.Content)
	if content == "" || len(content) > maxContentLength {
		return domain.Comment{}, domain.ErrInvalidContent
	}

	targetID, err := parseID(req.TargetID)
	if err != nil {
		return domain.Comment{}, err
	}

	var parentID *snowflake.ID
	if strings.TrimSpace(req.ParentID) != "" {
		id, err := parseID(req.ParentID)
		if err != nil {
			return domain.Comment{}, domain.ErrInvalidParent
		}
		parent, err := s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Comment{}, err
		}
		// Replies stay one level deep: a reply to a reply attaches to the
		// top-level comment.
		if parent == nil || parent.TargetType != req.TargetType || parent.TargetID != targetID {
			return domain.Comment{}, domain.ErrInvalidParent
		}
		if parent.ParentID != nil {
			id = *parent.ParentID
		}
		parentID = &id
	}

	now := time.Now().UTC()
	comment := domain.Comment{
		ID:         s.genID.Generate(),
		TargetType: req.TargetType,
		TargetID:   targetID,
		UserID:     userID,
		ParentID:   parentID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (s *Service) ListForTarget(ctx context.Context, targetType ratingdomain.TargetType, targetID string) ([]domain.CommentView, error) {
	id, err := parseID(targetID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.FindByTarget(ctx, s.db, targetType, id)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []domain.CommentView{}, nil
	}

	ids := make([]snowflake.ID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	reactions, err := s.repo.FindReactions(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	return BuildThread(comments, reactions), nil
}

// BuildThread derives reaction counts and nests replies under their parents.
func BuildThread(comments []domain.Comment, reactions []domain.CommentReaction) []domain.CommentView {
	likes := make(map[snowflake.ID]int)
	dislikes := make(map[snowflake.ID]int)
	for _, r := range reactions {
		switch r.Kind {
		case domain.ReactionLike:
			likes[r.CommentID]++
		case domain.ReactionDislike:
			dislikes[r.CommentID]++
		}
	}

	views := make(map[snowflake.ID]*domain.CommentView, len(comments))
	order := make([]snowflake.ID, 0, len(comments))
	for _, c := range comments {
		views[c.ID] = &domain.CommentView{
			Comment:  c,
			Likes:    likes[c.ID],
			Dislikes: dislikes[c.ID],
		}
		if c.ParentID == nil {
			order = append(order, c.ID)
		}
	}

	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		parent, ok := views[*c.ParentID]
		if !ok {
			// Orphaned reply, surface it at top level rather than dropping it.
			order = append(order, c.ID)
			continue
		}
		parent.Replies = append(parent.Replies, *views[c.ID])
	}

	out := make([]domain.CommentView, 0, len(order))
	for _, id := range order {
		out = append(out, *views[id])
	}
	return out
}

func (s *Service) React(ctx context.Context, req domain.ReactRequest) (domain.ReactResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.ReactResponse{}, domain.ErrInvalidUser
	}

	kind := domain.ReactionKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if kind != domain.ReactionLike && kind != domain.ReactionDislike {
		return domain.ReactResponse{}, domain.ErrInvalidKind
	}

	commentID, err := parseID(req.CommentID)
	if err != nil {
		return domain.ReactResponse{}, err
	}

	comment, err := s.repo.FindByID(ctx, s.db, commentID)
	if err != nil {
		return domain.ReactResponse{}, err
	}
	if comment == nil {
		return domain.ReactResponse{}, domain.ErrNotFound
	}

	var after string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindReaction(ctx, tx, commentID, userID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			after = string(kind)
			return s.repo.InsertReaction(ctx, tx, &domain.CommentReaction{
				ID:        s.genID.Generate(),
				CommentID: commentID,
				UserID:    userID,
				Kind:      kind,
				CreatedAt: time.Now().UTC(),
			})
		case existing.Kind == kind:
			// Same reaction again removes it.
			after = ""
			return s.repo.DeleteReaction(ctx, tx, existing.ID)
		default:
			existing.Kind = kind
			after = string(kind)
			return s.repo.UpdateReaction(ctx, tx, existing)
		}
	})
	if err != nil {
		return domain.ReactResponse{}, err
	}

	reactions, err := s.repo.FindReactions(ctx, s.db, []snowflake.ID{commentID})
	if err != nil {
		return domain.ReactResponse{}, err
	}
	resp := domain.ReactResponse{CommentID: commentID.String(), Reaction: after}
	for _, r := range reactions {
		switch r.Kind {
		case domain.ReactionLike:
			resp.Likes++
		case domain.ReactionDislike:
			resp.Dislikes++
		}
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) (domain.Comment, error) {
	commentID, err := parseID(id)
	if err != nil {
		return domain.Comment{}, err
	}
	comment, err := s.repo.FindByID(ctx, s.db, commentID)
	if err != nil {
		return domain.Comment{}, err
	}
	if comment == nil {
		return domain.Comment{}, domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, s.db, commentID); err != nil {
		return domain.Comment{}, err
	}
	return *comment, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
