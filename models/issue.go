package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Pothole         IssueCategory = "pothole"
	Streetlight     IssueCategory = "streetlight"
	Garbage         IssueCategory = "garbage"
	Drainage        IssueCategory = "drainage"
	TrafficSignal   IssueCategory = "traffic_signal"
	WaterSupply     IssueCategory = "water_supply"
	ParkMaintenance IssueCategory = "park_maintenance"
	RoadMaintenance IssueCategory = "road_maintenance"
	OtherCategory   IssueCategory = "other"
)

var issueCategories = map[IssueCategory]bool{
	Pothole: true, Streetlight: true, Garbage: true, Drainage: true,
	TrafficSignal: true, WaterSupply: true, ParkMaintenance: true,
	RoadMaintenance: true, OtherCategory: true,
}

func (c IssueCategory) Valid() bool { return issueCategories[c] }

// IssuePriority enum
type IssuePriority string

const (
	LowPriority      IssuePriority = "low"
	MediumPriority   IssuePriority = "medium"
	HighPriority     IssuePriority = "high"
	CriticalPriority IssuePriority = "critical"
)

var issuePriorities = map[IssuePriority]bool{
	LowPriority: true, MediumPriority: true, HighPriority: true, CriticalPriority: true,
}

func (p IssuePriority) Valid() bool { return issuePriorities[p] }

// IssueStatus enum
type IssueStatus string

const (
	Reported     IssueStatus = "reported"
	Acknowledged IssueStatus = "acknowledged"
	InProgress   IssueStatus = "in_progress"
	Resolved     IssueStatus = "resolved"
	Rejected     IssueStatus = "rejected"
)

var issueStatuses = map[IssueStatus]bool{
	Reported: true, Acknowledged: true, InProgress: true, Resolved: true, Rejected: true,
}

func (s IssueStatus) Valid() bool { return issueStatuses[s] }

// Terminal reports whether no further transition is defined from s.
func (s IssueStatus) Terminal() bool { return s == Resolved || s == Rejected }

// Department enum
type Department string

const (
	PublicWorks     Department = "public_works"
	SanitationDept  Department = "sanitation"
	TrafficDept     Department = "traffic"
	WaterDepartment Department = "water_department"
	ParksRecreation Department = "parks_recreation"
	Electrical      Department = "electrical"
)

var departments = map[Department]bool{
	PublicWorks: true, SanitationDept: true, TrafficDept: true,
	WaterDepartment: true, ParksRecreation: true, Electrical: true,
}

func (d Department) Valid() bool { return departments[d] }

// Location is where an issue was observed. Address is required even when
// coordinates are absent.
type Location struct {
	Address   string   `bson:"address" json:"address"`
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

// Issue represents a civic issue reported by a user.
//
// Upvotes always equals len(UpvotedBy); UpvotedBy is the authoritative set
// and is never exposed over the API.
type Issue struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title               string             `bson:"title" json:"title"`
	Description         string             `bson:"description" json:"description"`
	Category            IssueCategory      `bson:"category" json:"category"`
	Priority            IssuePriority      `bson:"priority" json:"priority"`
	Status              IssueStatus        `bson:"status" json:"status"`
	Location            Location           `bson:"location" json:"location"`
	Photos              []string           `bson:"photos" json:"photos"`
	Upvotes             int                `bson:"upvotes" json:"upvotes"`
	UpvotedBy           []string           `bson:"upvotedBy" json:"-"`
	AssignedDepartment  *Department        `bson:"assignedDepartment,omitempty" json:"assignedDepartment,omitempty"`
	ResolutionNotes     string             `bson:"resolutionNotes,omitempty" json:"resolutionNotes,omitempty"`
	EstimatedResolution *time.Time         `bson:"estimatedResolution,omitempty" json:"estimatedResolution,omitempty"`
	ActualResolution    *time.Time         `bson:"actualResolution,omitempty" json:"actualResolution,omitempty"`
	IsAnonymous         bool               `bson:"isAnonymous" json:"isAnonymous"`
	ContactEmail        string             `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	CitizenRating       *int               `bson:"citizenRating,omitempty" json:"citizenRating,omitempty"`
	CreatedBy           string             `bson:"createdBy" json:"createdBy,omitempty"`
	CreatedDate         time.Time          `bson:"createdDate" json:"createdDate"`
}

// HasVoted reports whether voterID is already in the upvote set.
func (i *Issue) HasVoted(voterID string) bool {
	for _, v := range i.UpvotedBy {
		if v == voterID {
			return true
		}
	}
	return false
}

// Sanitize returns a copy safe to show to viewerID: anonymous issues drop the
// reporter identity and contact email unless the viewer is the reporter.
func (i Issue) Sanitize(viewerID string) Issue {
	if i.IsAnonymous && i.CreatedBy != viewerID {
		i.CreatedBy = ""
		i.ContactEmail = ""
	}
	return i
}
