package server

import (
	"context"
	"encoding/json"
	"log"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated         = "post_created"
	EventPostReactionUpdated = "post_reaction_updated"
	EventCommentCreated      = "comment_created"
	EventCommentReply        = "comment_reply"
	EventWarningIssued       = "warning_issued"
	EventProfileSynced       = "profile_synced"
)

// realtimeEnabled gates event publication on the realtime_notifications flag.
func (s *Server) realtimeEnabled(userID uint) bool {
	if s.featureFlags == nil {
		return true
	}
	return s.featureFlags.Enabled("realtime_notifications", userID)
}

func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	if !s.realtimeEnabled(userID) {
		return
	}
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
}

func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	if !s.realtimeEnabled(0) {
		return
	}
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
	}
}
