package models

import (
	"fmt"
	"time"
)

// Connection is one directed edge of the mutual connection graph.
//
// A successful connect between two accounts always produces two rows, one in
// each direction. Edges are never updated or deleted.
type Connection struct {
	id              string
	sequence        int
	accountID       string
	linkedAccountID string
	createdAt       time.Time
}

// NewConnection creates a directed edge from accountID to linkedAccountID.
func NewConnection(sequence int, accountID, linkedAccountID string) *Connection {
	return &Connection{
		sequence:        sequence,
		accountID:       accountID,
		linkedAccountID: linkedAccountID,
		createdAt:       time.Now(),
	}
}

func (c *Connection) ID() string { return c.id }
func (c *Connection) Sequence() int { return c.sequence }
func (c *Connection) AccountID() string { return c.accountID }
func (c *Connection) LinkedAccountID() string { return c.linkedAccountID }
func (c *Connection) CreatedAt() time.Time { return c.createdAt }
func (c *Connection) UpdatedAt() time.Time { return c.createdAt }

func (c *Connection) SetID(id string) { c.id = id }

// Validate checks if the edge's data is valid.
func (c *Connection) Validate() error {
	if c.accountID == "" || c.linkedAccountID == "" {
		return fmt.Errorf("connection requires two account ids")
	}
	return nil
}
