package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/singalong/server/internal/service/lookup"
	"github.com/singalong/server/pkg/rest"
)

type searchQuery struct {
	Text        string `query:"q" validate:"required"`
	KaraokeOnly string `query:"karaokeOnly" validate:"omitempty,boolean"`
}

func (c controller) search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := searchQuery{
		Text:        r.URL.Query().Get("q"),
		KaraokeOnly: r.URL.Query().Get("karaokeOnly"),
	}

	if validationErrors, ok := c.validate.Validate(query); !ok {
		c.logger.InfoContext(ctx, "invalid search query", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	karaokeOnly := true
	if query.KaraokeOnly != "" {
		karaokeOnly, _ = strconv.ParseBool(query.KaraokeOnly)
	}

	items, err := c.lookupService.Search(ctx, &lookup.SearchParams{
		Text:        query.Text,
		KaraokeOnly: karaokeOnly,
	})
	if err != nil {
		if errors.Is(err, lookup.ErrLookupFailure) {
			c.logger.WarnContext(ctx, "lookup failed", "error", err)
			rest.WriteJSON(w, http.StatusBadGateway, rest.Envelope{"error": "lookup failure"})
			return
		}

		c.logger.ErrorContext(ctx, "failed to search", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, items)
}
