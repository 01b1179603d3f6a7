package ws

import (
	"net/url"
	"strconv"

	"tindo/internal/core/ports"
	"tindo/internal/pkg/errs"
)

// Session identity roles accepted at upgrade time.
const (
	RoleRestaurant = "restaurant"
	RoleAgent      = "agent"
	RoleTracker    = "tracker"
)

// Session describes who is connecting and which entity they follow. The
// initial topic set is derived from it, so a connection starts receiving
// its events without a subscribe round trip. An empty session is valid
// and starts with no subscriptions.
type Session struct {
	Role    string
	ID      int64
	OrderID string
}

// SessionFromQuery parses a session from upgrade request query parameters:
// role, id (restaurant or agent id), orderId (tracked order).
func SessionFromQuery(values url.Values) (Session, error) {
	session := Session{
		Role:    values.Get("role"),
		OrderID: values.Get("orderId"),
	}

	switch session.Role {
	case "":
		return Session{}, nil
	case RoleRestaurant, RoleAgent:
		id, err := strconv.ParseInt(values.Get("id"), 10, 64)
		if err != nil || id <= 0 {
			return Session{}, errs.NewValueIsRequiredError("id")
		}
		session.ID = id
	case RoleTracker:
		if session.OrderID == "" {
			return Session{}, errs.NewValueIsRequiredError("orderId")
		}
	default:
		return Session{}, errs.NewValueIsInvalidError("role")
	}

	return session, nil
}

// Topics returns the topics the session is registered for at upgrade time.
func (s Session) Topics() []ports.Topic {
	switch s.Role {
	case RoleRestaurant:
		return []ports.Topic{
			ports.TopicNewOrder(),
			ports.TopicOrderForRestaurant(s.ID),
		}
	case RoleAgent:
		// Agents watch the unassigned pool plus their own assignments.
		return []ports.Topic{
			ports.TopicNewOrder(),
			ports.TopicOrderForAgent(s.ID),
		}
	case RoleTracker:
		return []ports.Topic{ports.TopicTrackOrder(s.OrderID)}
	default:
		return nil
	}
}
