package services

import (
	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/models"
)

// PageMessages slices one page out of a room's full, oldest-first message
// list. The page holds up to limit messages that are older than before (or
// the newest ones when before is nil), still oldest first. hasMore reports
// whether older messages remain for a "load more".
func PageMessages(all []models.Message, limit int, before *uuid.UUID) (page []models.Message, hasMore bool, err error) {
	if limit <= 0 {
		return nil, false, ErrInvalidPageLen
	}

	end := len(all)
	if before != nil {
		end = -1
		for i := range all {
			if all[i].ID == *before {
				end = i
				break
			}
		}
		if end < 0 {
			return nil, false, ErrInvalidCursor
		}
	}

	start := end - limit
	if start < 0 {
		start = 0
	}
	return all[start:end], start > 0, nil
}
