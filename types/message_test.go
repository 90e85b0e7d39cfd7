package types

import "testing"

func TestMessageStatus_CanAdvanceTo(t *testing.T) {
	tt := []struct {
		name string
		from MessageStatus
		to   MessageStatus
		want bool
	}{
		{name: "pending_to_delivered", from: MessageStatusPending, to: MessageStatusDelivered, want: true},
		{name: "delivered_to_read", from: MessageStatusDelivered, to: MessageStatusRead, want: true},
		{name: "pending_to_read_skips_delivered", from: MessageStatusPending, to: MessageStatusRead, want: false},
		{name: "read_is_terminal", from: MessageStatusRead, to: MessageStatusDelivered, want: false},
		{name: "no_backwards_to_pending", from: MessageStatusDelivered, to: MessageStatusPending, want: false},
		{name: "no_self_transition_pending", from: MessageStatusPending, to: MessageStatusPending, want: false},
		{name: "no_self_transition_read", from: MessageStatusRead, to: MessageStatusRead, want: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanAdvanceTo(tc.to); got != tc.want {
				t.Errorf("%s → %s: got %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestCreateMessage_Validate(t *testing.T) {
	chatID := "9m4e2mr0ui3e8a215n4g"

	tt := []struct {
		name    string
		in      CreateMessage
		wantErr bool
	}{
		{
			name: "ok",
			in:   CreateMessage{ChatID: chatID, Content: "hey"},
		},
		{
			name: "ok_media_only",
			in: CreateMessage{ChatID: chatID, Media: []MediaInput{
				{Type: MediaTypeImage, URL: "https://cdn.example.com/pic.png"},
			}},
		},
		{
			name:    "missing_chat_id",
			in:      CreateMessage{Content: "hey"},
			wantErr: true,
		},
		{
			name:    "empty_content_without_media",
			in:      CreateMessage{ChatID: chatID, Content: "   "},
			wantErr: true,
		},
		{
			name: "invalid_media_scheme",
			in: CreateMessage{ChatID: chatID, Media: []MediaInput{
				{Type: MediaTypeImage, URL: "ftp://cdn.example.com/pic.png"},
			}},
			wantErr: true,
		},
		{
			name: "invalid_media_type",
			in: CreateMessage{ChatID: chatID, Media: []MediaInput{
				{Type: "GIF", URL: "https://cdn.example.com/pic.gif"},
			}},
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
