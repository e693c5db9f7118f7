package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var issueCollection *mongo.Collection = config.GetCollection("issues")
var userCollection *mongo.Collection = config.GetCollection("users")

// currentActor builds the acting identity from the auth middleware's context.
func currentActor(c *gin.Context) (models.Actor, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return models.Actor{}, false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return models.Actor{}, false
	}

	role := models.Citizen
	if roleVal, exists := c.Get("role"); exists {
		if r, ok := roleVal.(string); ok && r == string(models.Administrator) {
			role = models.Administrator
		}
	}
	return models.Actor{ID: userID, Role: role}, true
}

// issueErrorStatus maps a core error to its HTTP status code.
func issueErrorStatus(err error) int {
	var missing *models.MissingFieldError
	var badEnum *models.InvalidEnumError
	var outOfRange *models.OutOfRangeError
	var illegal *models.IllegalTransitionError

	switch {
	case errors.As(err, &missing), errors.As(err, &badEnum), errors.As(err, &outOfRange):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrIssueNotFound):
		return http.StatusNotFound
	case errors.As(err, &illegal), errors.Is(err, models.ErrAlreadyVoted), errors.Is(err, models.ErrNotResolved):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// issueView is the JSON shape returned for a single issue, with the viewer's
// vote state attached.
func issueView(issue models.Issue, viewerID string) gin.H {
	masked := issue.Sanitize(viewerID)
	return gin.H{
		"issue":        masked,
		"userHasVoted": viewerID != "" && issue.HasVoted(viewerID),
	}
}

// CreateIssue handles the creation of a new issue
func CreateIssue(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title        string   `json:"title" binding:"max=200"`
		Description  string   `json:"description" binding:"max=2000"`
		Category     string   `json:"category"`
		Priority     string   `json:"priority,omitempty"`
		Address      string   `json:"address" binding:"max=300"`
		Latitude     *float64 `json:"latitude,omitempty"`
		Longitude    *float64 `json:"longitude,omitempty"`
		Photos       []string `json:"photos,omitempty"`
		IsAnonymous  bool     `json:"isAnonymous,omitempty"`
		ContactEmail string   `json:"contactEmail,omitempty" binding:"omitempty,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := models.ValidateNewIssue(models.NewIssueInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Location: models.Location{
			Address:   input.Address,
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
		},
		Photos:       input.Photos,
		IsAnonymous:  input.IsAnonymous,
		ContactEmail: input.ContactEmail,
	})
	if err != nil {
		c.JSON(issueErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	issue.ID = primitive.NewObjectID()
	issue.CreatedBy = actor.ID
	issue.CreatedDate = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := issueCollection.InsertOne(ctx, issue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue.Sanitize(actor.ID))
}

// GetAllIssues handles retrieving all issues with filtering, pagination, and vote state
func GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category := c.Query("category")
	status := c.Query("status")
	priority := c.Query("priority")
	search := c.Query("search")
	sortParam := c.DefaultQuery("sort", "newest")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	// Build query filter
	filter := bson.M{}

	if category != "" && category != "all" {
		filter["category"] = category
	}

	if status != "" && status != models.StatusFilterAll {
		filter["status"] = status
	}

	if priority != "" && priority != "all" {
		filter["priority"] = priority
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	skip := (page - 1) * limit

	var sortOptions bson.D
	switch sortParam {
	case "oldest":
		sortOptions = bson.D{{Key: "createdDate", Value: 1}}
	case "votes":
		sortOptions = bson.D{{Key: "upvotes", Value: -1}, {Key: "createdDate", Value: -1}}
	case "newest":
		fallthrough
	default:
		sortOptions = bson.D{{Key: "createdDate", Value: -1}}
	}

	totalCount, err := issueCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count issues"})
		return
	}

	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	viewerID := ""
	if actor, ok := currentActor(c); ok {
		viewerID = actor.ID
	}

	views := make([]gin.H, 0, len(issues))
	for _, issue := range issues {
		views = append(views, issueView(issue, viewerID))
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"issues":      views,
		"totalIssues": totalCount,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetIssue retrieves an issue by its ID with vote information
func GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	viewerID := ""
	if actor, ok := currentActor(c); ok {
		viewerID = actor.ID
	}

	c.JSON(http.StatusOK, issueView(issue, viewerID))
}

// GetMyIssues retrieves the authenticated user's reports, newest first,
// optionally narrowed by status and free-text search.
func GetMyIssues(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := issueCollection.Find(ctx, bson.M{"createdBy": actor.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var snapshot []models.Issue
	if err := cursor.All(ctx, &snapshot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	issues := models.FilterByOwner(snapshot, actor.ID)
	issues = models.FilterByStatus(issues, c.DefaultQuery("status", models.StatusFilterAll))
	issues = models.Search(issues, c.Query("search"))

	views := make([]gin.H, 0, len(issues))
	for _, issue := range issues {
		views = append(views, issueView(issue, actor.ID))
	}

	c.JSON(http.StatusOK, gin.H{
		"issues": views,
		"stats":  models.Summarize(models.FilterByOwner(snapshot, actor.ID)),
	})
}

// UpvoteIssue records the authenticated user's vote on an issue. A user may
// vote at most once per issue; duplicates answer 409 without changing state.
func UpvoteIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := models.CastUpvote(ctx, issueCollection, issueID, actor.ID)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyVoted) {
			c.JSON(http.StatusConflict, gin.H{
				"error":        "You have already voted on this issue",
				"votes":        issue.Upvotes,
				"userHasVoted": true,
			})
			return
		}
		if errors.Is(err, models.ErrIssueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Vote cast successfully",
		"votes":        issue.Upvotes,
		"userHasVoted": true,
	})
}

// UpdateIssueStatus moves an issue through its lifecycle. Administrators only.
func UpdateIssueStatus(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Status              string `json:"status" binding:"required"`
		AssignedDepartment  string `json:"assignedDepartment,omitempty"`
		ResolutionNotes     string `json:"resolutionNotes,omitempty" binding:"max=2000"`
		EstimatedResolution string `json:"estimatedResolution,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	department, err := models.ValidateDepartment(input.AssignedDepartment)
	if err != nil {
		c.JSON(issueErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	estimated, err := models.ParseDate(input.EstimatedResolution)
	if err != nil {
		c.JSON(issueErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The write is conditional on the status the transition was validated
	// against. A lost race re-validates against the state actually persisted
	// and either retries or reports the transition illegal from there.
	for attempt := 0; attempt < 3; attempt++ {
		var issue models.Issue
		err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
			}
			return
		}

		next, err := models.Transition(issue, models.IssueStatus(input.Status), actor, models.TransitionChange{
			AssignedDepartment:  department,
			ResolutionNotes:     input.ResolutionNotes,
			EstimatedResolution: estimated,
		})
		if err != nil {
			c.JSON(issueErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"status": next.Status}
		if next.AssignedDepartment != nil {
			update["assignedDepartment"] = next.AssignedDepartment
		}
		if next.ResolutionNotes != "" {
			update["resolutionNotes"] = next.ResolutionNotes
		}
		if next.EstimatedResolution != nil {
			update["estimatedResolution"] = next.EstimatedResolution
		}
		if next.ActualResolution != nil {
			update["actualResolution"] = next.ActualResolution
		}

		res, err := issueCollection.UpdateOne(ctx,
			bson.M{"_id": issueID, "status": issue.Status},
			bson.M{"$set": update},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
			return
		}

		if res.MatchedCount > 0 {
			c.JSON(http.StatusOK, issueView(next, actor.ID))
			return
		}
	}

	c.JSON(http.StatusConflict, gin.H{"error": "Issue was modified concurrently, retry"})
}

// RateIssue records the reporter's satisfaction rating on a resolved issue.
func RateIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Rating int `json:"rating" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if issue.CreatedBy != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the reporter can rate this issue"})
		return
	}

	if err := models.ValidateRating(&issue, input.Rating); err != nil {
		c.JSON(issueErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	_, err = issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{
		"$set": bson.M{"citizenRating": input.Rating},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating saved", "rating": input.Rating})
}

// GetIssueStats returns the dashboard summary counters over all issues.
func GetIssueStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := issueCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var snapshot []models.Issue
	if err := cursor.All(ctx, &snapshot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	c.JSON(http.StatusOK, models.Summarize(snapshot))
}

// GetMapMarkers returns the most recent issues that have coordinates,
// projected down to what a map pin needs.
func GetMapMarkers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	limit := 50

	filter := bson.M{
		"location.latitude":  bson.M{"$exists": true, "$ne": nil},
		"location.longitude": bson.M{"$exists": true, "$ne": nil},
	}

	projection := bson.M{
		"_id":         1,
		"title":       1,
		"category":    1,
		"status":      1,
		"priority":    1,
		"location":    1,
		"upvotes":     1,
		"createdDate": 1,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdDate", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(projection)

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve map markers"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode map markers"})
		return
	}

	type Marker struct {
		ID          string               `json:"id"`
		Title       string               `json:"title"`
		Category    models.IssueCategory `json:"category"`
		Status      models.IssueStatus   `json:"status"`
		Priority    models.IssuePriority `json:"priority"`
		Latitude    float64              `json:"latitude"`
		Longitude   float64              `json:"longitude"`
		Address     string               `json:"address"`
		Upvotes     int                  `json:"upvotes"`
		CreatedDate time.Time            `json:"createdDate"`
	}

	markers := make([]Marker, 0, len(issues))
	for _, issue := range issues {
		if issue.Location.Latitude == nil || issue.Location.Longitude == nil {
			continue
		}
		markers = append(markers, Marker{
			ID:          issue.ID.Hex(),
			Title:       issue.Title,
			Category:    issue.Category,
			Status:      issue.Status,
			Priority:    issue.Priority,
			Latitude:    *issue.Location.Latitude,
			Longitude:   *issue.Location.Longitude,
			Address:     issue.Location.Address,
			Upvotes:     issue.Upvotes,
			CreatedDate: issue.CreatedDate,
		})
	}

	c.JSON(http.StatusOK, markers)
}

// GetIssueAnalytics returns analytical data about issues. Administrators only.
func GetIssueAnalytics(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok || actor.Role != models.Administrator {
		c.JSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Issues by category
	categoryPipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$category",
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"name":  "$_id",
				"value": "$count",
				"_id":   0,
			},
		},
	}

	categoryCursor, err := issueCollection.Aggregate(ctx, categoryPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category analytics"})
		return
	}
	defer categoryCursor.Close(ctx)

	var issuesByCategory []bson.M
	if err := categoryCursor.All(ctx, &issuesByCategory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode category analytics"})
		return
	}

	// Last 7 days submission counts
	var last7Days []gin.H
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		nextDate := date.AddDate(0, 0, 1)

		count, err := issueCollection.CountDocuments(ctx, bson.M{
			"createdDate": bson.M{
				"$gte": date,
				"$lt":  nextDate,
			},
		})
		if err != nil {
			count = 0
		}

		last7Days = append(last7Days, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	// Top voted issues
	findOptions := options.Find().
		SetSort(bson.D{{Key: "upvotes", Value: -1}, {Key: "createdDate", Value: -1}}).
		SetLimit(5)

	cursor, err := issueCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top voted issues"})
		return
	}
	defer cursor.Close(ctx)

	var topIssues []models.Issue
	if err := cursor.All(ctx, &topIssues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	type TopVoted struct {
		ID       string               `json:"id"`
		Title    string               `json:"title"`
		Category models.IssueCategory `json:"category"`
		Status   models.IssueStatus   `json:"status"`
		Votes    int                  `json:"votes"`
	}

	topVotedIssues := make([]TopVoted, 0, len(topIssues))
	for _, issue := range topIssues {
		topVotedIssues = append(topVotedIssues, TopVoted{
			ID:       issue.ID.Hex(),
			Title:    issue.Title,
			Category: issue.Category,
			Status:   issue.Status,
			Votes:    issue.Upvotes,
		})
	}

	// Summary counters from the full snapshot
	allCursor, err := issueCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer allCursor.Close(ctx)

	var snapshot []models.Issue
	if err := allCursor.All(ctx, &snapshot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}
	stats := models.Summarize(snapshot)

	c.JSON(http.StatusOK, gin.H{
		"issuesByCategory": issuesByCategory,
		"last7Days":        last7Days,
		"topVotedIssues":   topVotedIssues,
		"stats":            stats,
		"openIssues":       stats.Reported + stats.Acknowledged + stats.InProgress,
	})
}
