package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// RoadmapID is a UUID-based identifier for a Roadmap. It is generated at
// creation time and is independent of any database-assigned document ID.
type RoadmapID string

// NewRoadmapID generates a new UUID v4 RoadmapID
func NewRoadmapID() RoadmapID {
	return RoadmapID(uuid.New().String())
}

// String returns the string representation of the roadmap ID
func (id RoadmapID) String() string {
	return string(id)
}

// Roadmap is a generated learning roadmap owned by a single user.
// Data is immutable after creation; there is no update operation.
type Roadmap struct {
	ID            RoadmapID `json:"id"`
	UserEmail     string    `json:"user_email"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DurationWeeks *int      `json:"duration_weeks,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Data          *Graph    `json:"data"`
}

// Graph is a directed graph of milestone nodes and dependency edges.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a single milestone or skill in a roadmap graph.
type Node struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	RecommendedWeeks int      `json:"recommended_weeks"`
	Resources        []string `json:"resources"`
}

// Edge is a dependency between two nodes, referencing node IDs.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate checks the structural invariants of a graph: at least one node,
// and node IDs non-empty and unique. The presence of designated start/goal
// nodes is advisory and not enforced here.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return goerr.New("graph has no nodes")
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, node := range g.Nodes {
		if node.ID == "" {
			return goerr.New("node ID is required", goerr.V("title", node.Title))
		}
		if seen[node.ID] {
			return goerr.New("duplicate node ID", goerr.V("id", node.ID))
		}
		seen[node.ID] = true
	}

	for _, edge := range g.Edges {
		if edge.From == "" || edge.To == "" {
			return goerr.New("edge endpoints are required",
				goerr.V("from", edge.From),
				goerr.V("to", edge.To),
			)
		}
	}

	return nil
}

// NewFallbackGraph builds the fixed roadmap returned when no generative
// backend is available: a linear chain of start, fundamentals, project and
// goal milestones.
func NewFallbackGraph(goal, background string) *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "start", Title: "Start: " + goal, Description: background, RecommendedWeeks: 1, Resources: []string{}},
			{ID: "fundamentals", Title: "Fundamentals", Description: "Core concepts and basics.", RecommendedWeeks: 2, Resources: []string{}},
			{ID: "project", Title: "Project Work", Description: "Build a project to apply learning.", RecommendedWeeks: 2, Resources: []string{}},
			{ID: "goal", Title: "Achieve: " + goal, Description: "Target goal milestone.", RecommendedWeeks: 1, Resources: []string{}},
		},
		Edges: []Edge{
			{From: "start", To: "fundamentals"},
			{From: "fundamentals", To: "project"},
			{From: "project", To: "goal"},
		},
	}
}
