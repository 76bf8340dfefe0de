package service

import (
	"context"
	"fmt"
	"time"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
	"algopulse/internal/domain/repository"

	"github.com/google/uuid"
)

type DiscussionService struct {
	discussionRepo repository.DiscussionRepository
	userRepo       repository.UserRepository
}

func NewDiscussionService(discussionRepo repository.DiscussionRepository, userRepo repository.UserRepository) *DiscussionService {
	return &DiscussionService{discussionRepo: discussionRepo, userRepo: userRepo}
}

type CreatePostRequest struct {
	Content string  `json:"content"`
	Image   *string `json:"image,omitempty"`
}

func (s *DiscussionService) CreatePost(ctx context.Context, userID string, req CreatePostRequest) (*model.Discussion, error) {
	if req.Content == "" && (req.Image == nil || *req.Image == "") {
		return nil, fmt.Errorf("post needs content or an image: %w", common.ErrBadRequest)
	}
	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("author lookup failed: %w", err)
	}

	post := &model.Discussion{
		ID:         uuid.NewString(),
		UserID:     author.ID,
		Username:   author.Name,
		ProfilePic: author.ProfilePic,
		Content:    req.Content,
		Image:      req.Image,
		Likes:      []string{},
		Replies:    []model.Reply{},
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.discussionRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *DiscussionService) ListPosts(ctx context.Context) ([]model.Discussion, error) {
	posts, err := s.discussionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ToggleLike adds the user's like, or removes it if already present.
func (s *DiscussionService) ToggleLike(ctx context.Context, postID, userID string) (*model.Discussion, error) {
	post, err := s.discussionRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("post lookup failed: %w", err)
	}

	if post.LikedBy(userID) {
		filtered := post.Likes[:0]
		for _, id := range post.Likes {
			if id != userID {
				filtered = append(filtered, id)
			}
		}
		post.Likes = filtered
	} else {
		post.Likes = append(post.Likes, userID)
	}

	if err := s.discussionRepo.UpdateEngagement(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save like: %w", err)
	}
	return post, nil
}

type ReplyRequest struct {
	Content string `json:"content"`
}

func (s *DiscussionService) AddReply(ctx context.Context, postID, userID string, req ReplyRequest) (*model.Discussion, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("reply content is required: %w", common.ErrBadRequest)
	}
	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("author lookup failed: %w", err)
	}
	post, err := s.discussionRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("post lookup failed: %w", err)
	}

	post.Replies = append(post.Replies, model.Reply{
		ID:         uuid.NewString(),
		UserID:     author.ID,
		Username:   author.Name,
		ProfilePic: author.ProfilePic,
		Content:    req.Content,
		CreatedAt:  time.Now().UTC(),
	})

	if err := s.discussionRepo.UpdateEngagement(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}
	return post, nil
}

// DeletePost removes a post; only the author or an admin may delete.
func (s *DiscussionService) DeletePost(ctx context.Context, postID, userID, userRole string) error {
	post, err := s.discussionRepo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("post lookup failed: %w", err)
	}
	if post.UserID != userID && userRole != model.RoleAdmin {
		return fmt.Errorf("only the author or an admin can delete a post: %w", common.ErrForbidden)
	}
	if err := s.discussionRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
