package server

import (
	"errors"
	"strings"
	"time"

	"devlink/internal/models"
	"devlink/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseObjectID extracts a route parameter as an ObjectID. A value that does
// not parse gets the same 404 an absent document would, so route probing
// cannot distinguish malformed ids from missing ones. On failure it writes
// the response and returns errResponseWritten; callers should return nil.
func (s *Server) parseObjectID(c *fiber.Ctx, param, resource string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(c.Params(param))
	if err != nil {
		observability.LookupMisses.WithLabelValues(strings.ToLower(resource), string(models.NotFoundMalformedID)).Inc()
		_ = models.RespondWithAppError(c, models.NewMalformedIDError(resource))
		return bson.ObjectID{}, errResponseWritten
	}
	return id, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// parseDate accepts the date formats browser clients send for experience and
// education entries. Empty input yields a zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseOptionalDate is parseDate for nullable fields such as an entry's end date.
func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
