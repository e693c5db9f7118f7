package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddUpvote records a vote by voterID on a copy of issue. At most one vote per
// voter: a duplicate attempt returns ErrAlreadyVoted and the issue unchanged.
// The count and the set move together, keeping upvotes == len(upvotedBy).
func AddUpvote(issue Issue, voterID string) (Issue, error) {
	if issue.HasVoted(voterID) {
		return issue, ErrAlreadyVoted
	}
	next := issue
	next.UpvotedBy = append(append([]string{}, issue.UpvotedBy...), voterID)
	next.Upvotes = issue.Upvotes + 1
	return next, nil
}

// CastUpvote persists a vote as a single conditional update: the filter
// requires the voter to be absent, and $addToSet + $inc apply together, so two
// racing voters both land and a racing duplicate matches nothing. A zero
// MatchedCount therefore means either a duplicate vote or a missing issue;
// the follow-up read disambiguates.
func CastUpvote(ctx context.Context, issues *mongo.Collection, issueID primitive.ObjectID, voterID string) (*Issue, error) {
	res, err := issues.UpdateOne(ctx,
		bson.M{"_id": issueID, "upvotedBy": bson.M{"$ne": voterID}},
		bson.M{
			"$addToSet": bson.M{"upvotedBy": voterID},
			"$inc":      bson.M{"upvotes": 1},
		},
	)
	if err != nil {
		return nil, err
	}

	var issue Issue
	if findErr := issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); findErr != nil {
		if findErr == mongo.ErrNoDocuments {
			return nil, ErrIssueNotFound
		}
		return nil, findErr
	}

	if res.MatchedCount == 0 {
		return &issue, ErrAlreadyVoted
	}
	return &issue, nil
}

// EnsureIssueIndexes creates the indexes the issue queries depend on:
// owner listing by recency and voter membership checks.
func EnsureIssueIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdDate", Value: -1}}},
		{Keys: bson.D{{Key: "upvotedBy", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes, options.CreateIndexes())
	return err
}
