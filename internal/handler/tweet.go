package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SaiMadhavi2000/twitter-assinment/internal/model"
	"github.com/SaiMadhavi2000/twitter-assinment/internal/repository"
)

// TweetHandler serves tweet CRUD.  Ownership of a tweet is stamped from
// the authenticated context on create and enforced by the store on
// update/delete; the request body is never trusted for it.
type TweetHandler struct {
	Tweets TweetStore
}

func NewTweetHandler(tweets TweetStore) *TweetHandler {
	return &TweetHandler{Tweets: tweets}
}

type tweetReq struct {
	Text string `json:"text"`
}

// Create handles POST /v1/tweets.
func (h *TweetHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body tweetReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	t := &model.Tweet{UserID: userID, Text: text}
	if err := h.Tweets.Create(ctx, t); err != nil {
		c.Logger().Errorf("create tweet: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, t)
}

// ListMine handles GET /v1/tweets and returns the caller's tweets
// newest-first.
func (h *TweetHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Tweets.ListByUser(ctx, userID)
	if err != nil {
		c.Logger().Errorf("list tweets: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Timeline handles GET /v1/users/:id/timeline.  The timeline is public:
// anyone may read a user's tweets, newest-first.
func (h *TweetHandler) Timeline(c echo.Context) error {
	ownerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	items, err := h.Tweets.ListByUser(ctx, ownerID)
	if err != nil {
		c.Logger().Errorf("timeline: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/tweets/:id.  A missing tweet is 404 and a tweet
// owned by someone else is 403, in that order of precedence.
func (h *TweetHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body tweetReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	updated, err := h.Tweets.Update(ctx, id, userID, text)
	if err != nil {
		return tweetErr(c, err, "update tweet")
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/tweets/:id with the same error precedence as
// Update.
func (h *TweetHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Tweets.Delete(ctx, id, userID); err != nil {
		return tweetErr(c, err, "delete tweet")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tweet deleted"})
}

// tweetErr maps store errors for mutations onto HTTP responses.
func tweetErr(c echo.Context, err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrTweetNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tweet not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		c.Logger().Errorf("%s: %v", op, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
