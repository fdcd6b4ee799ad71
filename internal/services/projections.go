package services

import (
	"context"
	"fmt"

	"github.com/sourav-357/Streamify-chat-vc-platform/internal/models"
	"github.com/sourav-357/Streamify-chat-vc-platform/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// summariesByID resolves the given identity ids into public summaries, keyed
// by id. Read-side population: called after the write path has completed.
func summariesByID(ctx context.Context, users repositories.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	unique := dedupIDs(ids)
	found, err := users.GetUsersByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("populating users: %w", err)
	}
	out := make(map[primitive.ObjectID]models.UserSummary, len(found))
	for i := range found {
		out[found[i].ID] = found[i].Summary()
	}
	return out, nil
}

// dedupIDs removes duplicate ids while preserving first-seen order.
func dedupIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
