package post

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	notifService "github.com/SahilxSingh/EduConnect/internal/modules/notification/service"
	postDto "github.com/SahilxSingh/EduConnect/internal/modules/post/dto"
	postRepo "github.com/SahilxSingh/EduConnect/internal/modules/post/repository"
	reactionRepo "github.com/SahilxSingh/EduConnect/internal/modules/reaction/repository"
	searchService "github.com/SahilxSingh/EduConnect/internal/modules/search/service"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/SahilxSingh/EduConnect/pkg/ratelimiter"
	"github.com/SahilxSingh/EduConnect/pkg/validator"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// MediaClaimer links an uploaded file to the post that uses it.
type MediaClaimer interface {
	ClaimForPost(ctx context.Context, fileURL string, postID, userID uuid.UUID) error
}

type PostService interface {
	GetFeed(ctx context.Context) ([]postDto.PostResponse, error)
	GetUserPosts(ctx context.Context, externalID string) ([]postDto.PostResponse, error)
	CreatePost(ctx context.Context, actorID string, req postDto.CreatePostRequest) (*postDto.PostResponse, error)
	AddComment(ctx context.Context, actorID string, postID uuid.UUID, req postDto.CreateCommentRequest) (*postDto.CommentResponse, error)
}

type postService struct {
	repo         postRepo.PostRepository
	reactionRepo reactionRepo.ReactionRepository
	users        userService.Directory
	notifier     notifService.Notifier
	indexer      searchService.Indexer
	media        MediaClaimer
	limiter      *ratelimiter.Limiter
	postCooldown time.Duration
	sanitizer    *bluemonday.Policy
	log          zerolog.Logger
}

func NewPostService(
	repo postRepo.PostRepository,
	reactionRepo reactionRepo.ReactionRepository,
	users userService.Directory,
	notifier notifService.Notifier,
	indexer searchService.Indexer,
	media MediaClaimer,
	limiter *ratelimiter.Limiter,
	postCooldown time.Duration,
	log zerolog.Logger,
) PostService {
	return &postService{
		repo:         repo,
		reactionRepo: reactionRepo,
		users:        users,
		notifier:     notifier,
		indexer:      indexer,
		media:        media,
		limiter:      limiter,
		postCooldown: postCooldown,
		sanitizer:    bluemonday.UGCPolicy(),
		log:          log,
	}
}

func (s *postService) GetFeed(ctx context.Context) ([]postDto.PostResponse, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return s.assemble(ctx, posts)
}

func (s *postService) GetUserPosts(ctx context.Context, externalID string) ([]postDto.PostResponse, error) {
	user, err := s.users.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	posts, err := s.repo.FindByAuthor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return s.assemble(ctx, posts)
}

func (s *postService) CreatePost(ctx context.Context, actorID string, req postDto.CreatePostRequest) (*postDto.PostResponse, error) {
	content := s.plainText(req.Content)
	if content == "" {
		return nil, apperror.BadRequest("content is required")
	}

	mediaURL := trimmedOrNil(req.MediaURL)
	if mediaURL != nil && !validator.IsURL(*mediaURL) {
		return nil, apperror.BadRequest("mediaUrl must be a valid URL")
	}

	author, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Allow(ctx, author.ID.String(), "create_post", s.postCooldown); err != nil {
		return nil, err
	}

	post := &entity.Post{
		AuthorID: author.ID,
		Content:  content,
		MediaURL: mediaURL,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		// the post never landed, so give the cooldown back
		_ = s.limiter.Clear(ctx, author.ID.String(), "create_post")
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if post.MediaURL != nil && s.media != nil {
		if err := s.media.ClaimForPost(ctx, *post.MediaURL, post.ID, author.ID); err != nil {
			s.log.Warn().Err(err).Str("post_id", post.ID.String()).Msg("media claim failed")
		}
	}

	summaries, err := s.users.Summaries(ctx, []uuid.UUID{author.ID})
	if err != nil {
		s.log.Warn().Err(err).Msg("author lookup failed after post create")
	}
	authorSummary, ok := summaries[author.ID]

	if s.indexer != nil {
		if err := s.indexer.IndexPost(post, authorSummary); err != nil {
			s.log.Warn().Err(err).Str("post_id", post.ID.String()).Msg("post indexing failed")
		}
	}

	resp := &postDto.PostResponse{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		MediaURL:  post.MediaURL,
		CreatedAt: post.CreatedAt,
		Likes:     []postDto.LikeResponse{},
		Comments:  []postDto.CommentResponse{},
	}
	if ok {
		resp.Author = &authorSummary
	}
	return resp, nil
}

func (s *postService) AddComment(ctx context.Context, actorID string, postID uuid.UUID, req postDto.CreateCommentRequest) (*postDto.CommentResponse, error) {
	content := s.plainText(req.Content)
	if content == "" {
		return nil, apperror.BadRequest("content is required")
	}

	user, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comment := &entity.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	summaries, err := s.users.Summaries(ctx, []uuid.UUID{user.ID})
	if err != nil {
		s.log.Warn().Err(err).Msg("commenter lookup failed")
	}
	commenter, ok := summaries[user.ID]

	if s.notifier != nil {
		name := "Someone"
		if ok {
			name = commenter.Name
		}
		err := s.notifier.Notify(ctx, &entity.Notification{
			UserID:     post.AuthorID,
			ActorID:    &user.ID,
			EntityID:   post.ID,
			EntityType: "post",
			Type:       entity.NotificationComment,
			Message:    fmt.Sprintf("%s commented on your post", name),
		})
		if err != nil {
			s.log.Warn().Err(err).Str("post_id", post.ID.String()).Msg("comment notification failed")
		}
	}

	resp := &postDto.CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if ok {
		resp.User = &commenter
	}
	return resp, nil
}

// assemble enriches posts with their reactions, comments and every user
// involved. Children are fetched by the post id set and grouped in memory.
func (s *postService) assemble(ctx context.Context, posts []entity.Post) ([]postDto.PostResponse, error) {
	out := make([]postDto.PostResponse, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	postIDs := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var (
		reactions []entity.Reaction
		comments  []entity.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reactions, err = s.reactionRepo.FindByPostIDs(gctx, postIDs)
		if err != nil {
			return fmt.Errorf("failed to load reactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		comments, err = s.repo.FindCommentsByPostIDs(gctx, postIDs)
		if err != nil {
			return fmt.Errorf("failed to load comments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(posts)+len(reactions)+len(comments))
	for _, p := range posts {
		userIDs = append(userIDs, p.AuthorID)
	}
	for _, r := range reactions {
		userIDs = append(userIDs, r.UserID)
	}
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	summaries, err := s.users.Summaries(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	summaryOf := func(id uuid.UUID) *dto.UserSummary {
		if sum, ok := summaries[id]; ok {
			return &sum
		}
		return nil
	}

	likesByPost := make(map[uuid.UUID][]postDto.LikeResponse, len(posts))
	for _, r := range reactions {
		likesByPost[r.PostID] = append(likesByPost[r.PostID], postDto.LikeResponse{
			ID:           r.ID,
			PostID:       r.PostID,
			UserID:       r.UserID,
			ReactionType: r.ReactionType,
			CreatedAt:    r.CreatedAt,
			User:         summaryOf(r.UserID),
		})
	}
	commentsByPost := make(map[uuid.UUID][]postDto.CommentResponse, len(posts))
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], postDto.CommentResponse{
			ID:        c.ID,
			PostID:    c.PostID,
			UserID:    c.UserID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			User:      summaryOf(c.UserID),
		})
	}

	for _, p := range posts {
		likes := likesByPost[p.ID]
		if likes == nil {
			likes = []postDto.LikeResponse{}
		}
		postComments := commentsByPost[p.ID]
		if postComments == nil {
			postComments = []postDto.CommentResponse{}
		}
		out = append(out, postDto.PostResponse{
			ID:        p.ID,
			AuthorID:  p.AuthorID,
			Content:   p.Content,
			MediaURL:  p.MediaURL,
			CreatedAt: p.CreatedAt,
			Author:    summaryOf(p.AuthorID),
			Likes:     likes,
			Comments:  postComments,
		})
	}
	return out, nil
}

// plainText drops unsafe markup but keeps the text itself unescaped; the
// API serves plain text, not HTML.
func (s *postService) plainText(content string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(content)))
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
