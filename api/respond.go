package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"sup-api/errors"
	"sup-api/repositories"
	"sup-api/services"
)

// userView is the client-facing shape of a user. The password hash is not
// part of the struct at all, so it can never be serialized by accident.
type userView struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// messageView expands sender and recipient references into user objects.
type messageView struct {
	ID   string   `json:"_id"`
	Text string   `json:"text"`
	From userView `json:"from"`
	To   userView `json:"to"`
}

func toUserView(user repositories.User) userView {
	return userView{ID: user.ID, Username: user.Username}
}

func toUserViews(users []repositories.User) []userView {
	return lo.Map(users, func(user repositories.User, _ int) userView {
		return toUserView(user)
	})
}

func toMessageView(expanded services.ExpandedMessage) messageView {
	return messageView{
		ID:   expanded.Message.ID.String(),
		Text: expanded.Message.Text,
		From: toUserView(expanded.From),
		To:   toUserView(expanded.To),
	}
}

func toMessageViews(expanded []services.ExpandedMessage) []messageView {
	return lo.Map(expanded, func(e services.ExpandedMessage, _ int) messageView {
		return toMessageView(e)
	})
}

// respondError writes the single error response for a request. Unexpected
// errors are logged before the generic 500 goes out.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	status, message := errors.HTTPStatus(err)
	if status == 500 {
		log.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, gin.H{"message": message})
}

// bindPayload decodes the request body into a generic map for field
// validation. An unreadable or non-object body yields an empty payload, which
// the validator then reports as the first missing field.
func bindPayload(c *gin.Context) map[string]any {
	payload := map[string]any{}
	_ = c.ShouldBindJSON(&payload)
	return payload
}
