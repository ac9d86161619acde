package postapp

import (
	"context"

	postEntity "cityscope/internal/core/post"
	postPort "cityscope/internal/ports/post"
	userPort "cityscope/internal/ports/user"

	"github.com/gofrs/uuid"
)

// SummaryResolver برگرداندن خلاصه‌ی هویت برای مجموعه‌ای از شناسه‌ها
type SummaryResolver interface {
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]userPort.SummaryDTO, error)
}

// Projector turns post aggregates into response DTOs, replacing user ids with
// identity summaries. One resolver call is made per batch of posts.
type Projector struct {
	Users SummaryResolver
}

func NewProjector(users SummaryResolver) *Projector {
	return &Projector{Users: users}
}

// Posts viewerID may be uuid.Nil for anonymous readers; likedByMe is then always false.
func (pr *Projector) Posts(ctx context.Context, posts []*postEntity.Post, viewerID uuid.UUID) ([]*postPort.PostDTO, error) {
	out := make([]*postPort.PostDTO, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	var ids []uuid.UUID
	for _, p := range posts {
		ids = append(ids, p.ParticipantIDs()...)
	}
	summaries, err := pr.Users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		out = append(out, render(p, summaries, viewerID))
	}
	return out, nil
}

func (pr *Projector) Post(ctx context.Context, p *postEntity.Post, viewerID uuid.UUID) (*postPort.PostDTO, error) {
	dtos, err := pr.Posts(ctx, []*postEntity.Post{p}, viewerID)
	if err != nil {
		return nil, err
	}
	return dtos[0], nil
}

func (pr *Projector) Comment(ctx context.Context, c postEntity.Comment) (*postPort.CommentDTO, error) {
	summaries, err := pr.Users.Summaries(ctx, []uuid.UUID{c.UserID})
	if err != nil {
		return nil, err
	}
	dto := renderComment(c, summaries)
	return &dto, nil
}

func render(p *postEntity.Post, summaries map[uuid.UUID]userPort.SummaryDTO, viewerID uuid.UUID) *postPort.PostDTO {
	likes := p.Likes()
	likeDTOs := make([]postPort.LikeDTO, 0, len(likes))
	for _, l := range likes {
		likeDTOs = append(likeDTOs, postPort.LikeDTO{
			User:      summaryOf(l.UserID, summaries),
			CreatedAt: l.CreatedAt,
		})
	}

	comments := p.Comments()
	commentDTOs := make([]postPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		commentDTOs = append(commentDTOs, renderComment(c, summaries))
	}

	images := p.Images
	if images == nil {
		images = []string{}
	}

	return &postPort.PostDTO{
		ID:            p.ID.String(),
		Content:       p.Content,
		Type:          string(p.Type),
		Location:      p.Location,
		Images:        images,
		Author:        summaryOf(p.AuthorID, summaries),
		Likes:         likeDTOs,
		LikesCount:    len(likeDTOs),
		LikedByMe:     viewerID != uuid.Nil && p.HasLiked(viewerID),
		Comments:      commentDTOs,
		CommentsCount: len(commentDTOs),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func renderComment(c postEntity.Comment, summaries map[uuid.UUID]userPort.SummaryDTO) postPort.CommentDTO {
	return postPort.CommentDTO{
		ID:        c.ID.String(),
		User:      summaryOf(c.UserID, summaries),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// summaryOf کاربری که دیگر وجود ندارد فقط با شناسه نمایش داده می‌شود
func summaryOf(id uuid.UUID, summaries map[uuid.UUID]userPort.SummaryDTO) userPort.SummaryDTO {
	if s, ok := summaries[id]; ok {
		return s
	}
	return userPort.SummaryDTO{ID: id.String()}
}
