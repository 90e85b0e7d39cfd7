package types

import (
	"strings"
	"testing"
)

const (
	testUserID      = "9m4e2mr0ui3e8a215n4g"
	testOtherUserID = "9m4e2mr0ui3e8a215n40"
)

func TestCreateChat_Validate(t *testing.T) {
	tt := []struct {
		name    string
		in      CreateChat
		wantErr bool
	}{
		{
			name: "ok_dual",
			in:   CreateChat{Kind: ChatKindDual, ParticipantIDs: []string{testUserID}},
		},
		{
			name: "ok_group_named",
			in:   CreateChat{Kind: ChatKindGroup, Name: new("weekend plans"), ParticipantIDs: []string{testUserID, testOtherUserID}},
		},
		{
			name:    "unknown_kind",
			in:      CreateChat{Kind: "CHANNEL", ParticipantIDs: []string{testUserID}},
			wantErr: true,
		},
		{
			name:    "no_participants",
			in:      CreateChat{Kind: ChatKindDual},
			wantErr: true,
		},
		{
			name:    "invalid_participant_id",
			in:      CreateChat{Kind: ChatKindDual, ParticipantIDs: []string{"nope"}},
			wantErr: true,
		},
		{
			name:    "dual_cannot_be_named",
			in:      CreateChat{Kind: ChatKindDual, Name: new("us two"), ParticipantIDs: []string{testUserID}},
			wantErr: true,
		},
		{
			name:    "name_too_long",
			in:      CreateChat{Kind: ChatKindGroup, Name: new(strings.Repeat("x", 73)), ParticipantIDs: []string{testUserID}},
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Errorf("got err %v, want err %v", err, tc.wantErr)
			}
		})
	}
}

func TestUpdateChatMembers_Validate(t *testing.T) {
	chatID := "9m4e2mr0ui3e8a215nh0"

	tt := []struct {
		name    string
		in      UpdateChatMembers
		wantErr bool
	}{
		{
			name: "ok_add",
			in:   UpdateChatMembers{ChatID: chatID, AddUserIDs: []string{testUserID}},
		},
		{
			name: "ok_remove",
			in:   UpdateChatMembers{ChatID: chatID, RemoveUserIDs: []string{testUserID}},
		},
		{
			name:    "nothing_to_do",
			in:      UpdateChatMembers{ChatID: chatID},
			wantErr: true,
		},
		{
			name: "add_and_remove_same_user",
			in: UpdateChatMembers{
				ChatID:        chatID,
				AddUserIDs:    []string{testUserID},
				RemoveUserIDs: []string{testUserID},
			},
			wantErr: true,
		},
		{
			name:    "invalid_chat_id",
			in:      UpdateChatMembers{ChatID: "nope", AddUserIDs: []string{testUserID}},
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Errorf("got err %v, want err %v", err, tc.wantErr)
			}
		})
	}
}

func TestResolveFriendRequest_Validate(t *testing.T) {
	requestID := "9m4e2mr0ui3e8a215nr0"

	tt := []struct {
		name    string
		in      ResolveFriendRequest
		wantErr bool
	}{
		{
			name: "ok_accept",
			in:   ResolveFriendRequest{RequestID: requestID, Status: FriendRequestStatusAccepted},
		},
		{
			name: "ok_reject",
			in:   ResolveFriendRequest{RequestID: requestID, Status: FriendRequestStatusRejected},
		},
		{
			name:    "cannot_resolve_back_to_pending",
			in:      ResolveFriendRequest{RequestID: requestID, Status: FriendRequestStatusPending},
			wantErr: true,
		},
		{
			name:    "unknown_status",
			in:      ResolveFriendRequest{RequestID: requestID, Status: "MAYBE"},
			wantErr: true,
		},
		{
			name:    "missing_request_id",
			in:      ResolveFriendRequest{Status: FriendRequestStatusAccepted},
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Errorf("got err %v, want err %v", err, tc.wantErr)
			}
		})
	}
}
