package service

import (
	"strings"
	"testing"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
)

func TestCreateChannel(t *testing.T) {
	tests := []struct {
		name        string
		channelName string
		creatorID   uint
		shouldErr   bool
	}{
		{"valid channel", "general", 1, false},
		{"name with spaces trimmed", "  dev talk  ", 1, false},
		{"empty name", "", 1, true},
		{"whitespace name", "   ", 1, true},
		{"name too long", strings.Repeat("a", 101), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channelRepo := NewMockChannelRepository()
			svc := NewChannelService(channelRepo)

			channel, err := svc.CreateChannel(tt.channelName, "", tt.creatorID)
			if (err != nil) != tt.shouldErr {
				t.Fatalf("CreateChannel error = %v, wantErr %v", err, tt.shouldErr)
			}
			if tt.shouldErr {
				return
			}

			if channel.Name != strings.TrimSpace(tt.channelName) {
				t.Errorf("Name = %q", channel.Name)
			}
			// Creator becomes a member with the owner role
			isMember, _ := channelRepo.IsMember(channel.ID, tt.creatorID)
			if !isMember {
				t.Error("creator is not a member of the new channel")
			}
			if role := channelRepo.members[memberKey(channel.ID, tt.creatorID)]; role != models.RoleOwner {
				t.Errorf("creator role = %s, want %s", role, models.RoleOwner)
			}
		})
	}
}

func TestJoinChannelIsIdempotent(t *testing.T) {
	channelRepo := NewMockChannelRepository()
	svc := NewChannelService(channelRepo)

	channel, err := svc.CreateChannel("general", "", 1)
	if err != nil {
		t.Fatalf("CreateChannel error: %v", err)
	}

	if err := svc.JoinChannel(channel.ID, 2); err != nil {
		t.Fatalf("JoinChannel error: %v", err)
	}
	// Joining again keeps the existing membership
	if err := svc.JoinChannel(channel.ID, 2); err != nil {
		t.Fatalf("second JoinChannel error: %v", err)
	}

	isMember, _ := svc.IsMember(channel.ID, 2)
	if !isMember {
		t.Error("user 2 should be a member")
	}
}

func TestLeaveChannel(t *testing.T) {
	channelRepo := NewMockChannelRepository()
	svc := NewChannelService(channelRepo)

	channel, _ := svc.CreateChannel("general", "", 1)
	svc.JoinChannel(channel.ID, 2)

	if err := svc.LeaveChannel(channel.ID, 2); err != nil {
		t.Fatalf("LeaveChannel error: %v", err)
	}
	isMember, _ := svc.IsMember(channel.ID, 2)
	if isMember {
		t.Error("user 2 should no longer be a member")
	}
}

func TestUserChannelIDs(t *testing.T) {
	channelRepo := NewMockChannelRepository()
	svc := NewChannelService(channelRepo)

	ch1, _ := svc.CreateChannel("one", "", 1)
	ch2, _ := svc.CreateChannel("two", "", 1)
	svc.CreateChannel("three", "", 2)

	ids, err := svc.UserChannelIDs(1)
	if err != nil {
		t.Fatalf("UserChannelIDs error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d channel IDs, want 2", len(ids))
	}
	want := map[uint]bool{ch1.ID: true, ch2.ID: true}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected channel ID %d", id)
		}
	}
}
