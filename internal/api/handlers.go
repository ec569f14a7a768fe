package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"feedline/internal/core"
	"feedline/internal/engagement"
	"feedline/internal/feed"
)

type Handlers struct {
	Logger *slog.Logger

	Engagement    *engagement.Service
	Feed          *feed.Assembler
	Notifications core.NotificationRepository
	Users         core.UserRepository
	Identity      Identity
}

func (h *Handlers) Init(_ context.Context) error {
	h.Logger = h.Logger.With("component", "api.Handlers")
	return nil
}

func (h *Handlers) Routes(r chi.Router) {
	r.Route("/users/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/follow", h.follow)
			r.Delete("/unfollow", h.unfollow)
		})
		r.Get("/followers", h.followers)
		r.Get("/following", h.following)
	})

	r.Route("/posts/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/like", h.like)
			r.Delete("/unlike", h.unlike)
			r.Get("/like-status", h.likeStatus)
			r.Post("/comments/add", h.addComment)
		})
		r.Get("/comments", h.comments)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Delete("/comments/{id}/delete", h.deleteComment)
		r.Get("/feed", h.feed)
		r.Get("/notifications", h.notifications)
		r.Post("/notifications/{id}/read", h.markNotificationRead)
		r.Post("/notifications/mark-all-read", h.markAllNotificationsRead)
	})
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type commentRequest struct {
	Content string `json:"content"`
}

func (c commentRequest) Validate() error {
	if c.Content == "" {
		return fmt.Errorf("%w: content is required", core.ErrInvalid)
	}
	return nil
}

type commentResponse struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	Author     int64     `json:"author"`
	AuthorName string    `json:"author_name"`
	Post       int64     `json:"post"`
	CreatedAt  time.Time `json:"created_at"`
	IsActive   bool      `json:"is_active"`
}

type notificationResponse struct {
	ID                int64     `json:"id"`
	SenderUsername    string    `json:"sender_username"`
	RecipientUsername string    `json:"recipient_username"`
	NotificationType  string    `json:"notification_type"`
	Post              *int64    `json:"post"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	CreatedAt         time.Time `json:"created_at"`
}

func (h *Handlers) follow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	followee, err := h.Engagement.Follow(r.Context(), viewerID(r.Context()), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{
		Detail: fmt.Sprintf("You are now following %s", followee.Username),
	})
}

func (h *Handlers) unfollow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Engagement.Unfollow(r.Context(), viewerID(r.Context()), id); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{Detail: "Unfollowed successfully"})
}

func (h *Handlers) followers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	users, err := h.Engagement.Followers(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usersResponse(users))
}

func (h *Handlers) following(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	users, err := h.Engagement.Following(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usersResponse(users))
}

func (h *Handlers) like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Engagement.Like(r.Context(), viewerID(r.Context()), id); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{Detail: "Post liked"})
}

func (h *Handlers) unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Engagement.Unlike(r.Context(), viewerID(r.Context()), id); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{Detail: "Post unliked"})
}

func (h *Handlers) likeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	liked, err := h.Engagement.LikeStatus(r.Context(), viewerID(r.Context()), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handlers) comments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	list, err := h.Engagement.PostComments(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp, err := h.commentsResponse(r, list)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) addComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: malformed JSON body", core.ErrInvalid))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	comment, err := h.Engagement.Comment(r.Context(), viewerID(r.Context()), id, req.Content)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp, err := h.commentsResponse(r, []core.Comment{*comment})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp[0])
}

func (h *Handlers) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Engagement.DeleteComment(r.Context(), id, viewerID(r.Context())); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{Detail: "Comment deleted"})
}

func (h *Handlers) feed(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	p, err := h.Feed.Assemble(r.Context(), viewerID(r.Context()), page)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) notifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := viewerID(ctx)

	recipient, err := h.Users.Get(ctx, viewer)
	if err != nil {
		h.writeError(w, err)
		return
	}

	list, err := h.Notifications.ListForRecipient(ctx, viewer)
	if err != nil {
		h.writeError(w, err)
		return
	}

	senderIDs := lo.Uniq(lo.Map(list, func(n core.Notification, _ int) int64 { return n.SenderID }))
	senderList, err := h.Users.ListByIDs(ctx, senderIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	senders := lo.Associate(senderList, func(u core.User) (int64, string) {
		return u.ID, u.Username
	})

	resp := lo.Map(list, func(n core.Notification, _ int) notificationResponse {
		return notificationResponse{
			ID:                n.ID,
			SenderUsername:    senders[n.SenderID],
			RecipientUsername: recipient.Username,
			NotificationType:  n.Type,
			Post:              n.PostID,
			Message:           n.Message,
			IsRead:            n.IsRead,
			CreatedAt:         n.CreatedAt,
		}
	})

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Notifications.MarkRead(r.Context(), id, viewerID(r.Context())); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Notification marked as read"})
}

func (h *Handlers) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkAllRead(r.Context(), viewerID(r.Context())); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "All notifications marked as read"})
}

func (h *Handlers) commentsResponse(r *http.Request, list []core.Comment) ([]commentResponse, error) {
	authorIDs := lo.Uniq(lo.Map(list, func(c core.Comment, _ int) int64 { return c.AuthorID }))
	authorList, err := h.Users.ListByIDs(r.Context(), authorIDs)
	if err != nil {
		return nil, err
	}
	authors := lo.Associate(authorList, func(u core.User) (int64, string) {
		return u.ID, u.Username
	})

	return lo.Map(list, func(c core.Comment, _ int) commentResponse {
		return commentResponse{
			ID:         c.ID,
			Content:    c.Content,
			Author:     c.AuthorID,
			AuthorName: authors[c.AuthorID],
			Post:       c.PostID,
			CreatedAt:  c.CreatedAt,
			IsActive:   c.IsActive,
		}
	}), nil
}

func usersResponse(users []core.User) []userResponse {
	return lo.Map(users, func(u core.User, _ int) userResponse {
		return userResponse{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
		}
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, detailResponse{Detail: "not found"})
		return 0, false
	}
	return id, true
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: err.Error()})
	case errors.Is(err, core.ErrConflict):
		writeJSON(w, http.StatusConflict, detailResponse{Detail: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, detailResponse{Detail: err.Error()})
	case errors.Is(err, core.ErrForbidden):
		writeJSON(w, http.StatusForbidden, detailResponse{Detail: err.Error()})
	default:
		h.Logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
