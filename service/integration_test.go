package service

import (
	"bytes"
	"context"
	"encoding/gob"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"

	"github.com/chatlinehq/chatline/auth"
	"github.com/chatlinehq/chatline/cockroach"
	"github.com/chatlinehq/chatline/cockroach/migrator"
	"github.com/chatlinehq/chatline/errs"
	"github.com/chatlinehq/chatline/event"
	"github.com/chatlinehq/chatline/presence"
	"github.com/chatlinehq/chatline/pubsub"
	"github.com/chatlinehq/chatline/types"
)

var (
	testDB        *pgxpool.Pool
	testCockroach *cockroach.Cockroach
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	var skipIntegration bool
	flag.BoolVar(&skipIntegration, "skip-integration", false, "Skip integration tests docker setup")
	flag.Parse()

	if skipIntegration || testing.Short() {
		return m.Run()
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Printf("could not create docker pool: %v\n", err)
		return 1
	}

	var cleanup func() error
	testDB, cleanup, err = setupTestDB(pool)
	if err != nil {
		fmt.Printf("could not setup test db: %v\n", err)
		return 1
	}
	testCockroach = cockroach.New(testDB)

	if _, err := testDB.Exec(context.Background(), "CREATE DATABASE IF NOT EXISTS chatline"); err != nil {
		fmt.Printf("could not create test database: %v\n", err)
		return 1
	}

	if err := migrator.Migrate(context.Background(), testDB, cockroach.MigrationsFS); err != nil {
		fmt.Printf("could not migrate schema: %v\n", err)
		return 1
	}

	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("could not cleanup cockroach container: %v\n", err)
		}
	}()

	return m.Run()
}

func setupTestDB(pool *dockertest.Pool) (*pgxpool.Pool, func() error, error) {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "cockroachdb/cockroach",
		Tag:        "latest",
		Cmd:        []string{"start-single-node", "--insecure"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create cockroach resource: %w", err)
	}

	var db *pgxpool.Pool
	err = pool.Retry(func() (err error) {
		hostPort := resource.GetHostPort("26257/tcp")
		db, err = pgxpool.New(context.Background(), "postgresql://root@"+hostPort+"/chatline?sslmode=disable")
		if err != nil {
			return fmt.Errorf("could not open db: %w", err)
		}

		// do not close db

		if err = db.Ping(context.Background()); err != nil {
			return fmt.Errorf("could not ping db: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return db, func() error {
		return pool.Purge(resource)
	}, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	if testDB == nil {
		t.Skip("requires database")
	}

	tokens, err := auth.NewTokens("supersecretkeyyoushouldnotcommit", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}

	svc := New(&Config{
		Cockroach:         testCockroach,
		PubSub:            pubsub.NewMemory(),
		Presence:          presence.NewTracker(),
		Bus:               event.NewBus(),
		Tokens:            tokens,
		Logger:            slog.New(slog.DiscardHandler),
		MediaBaseURL:      &url.URL{Scheme: "http", Host: "localhost:9000"},
		BaseCtx:           context.Background(),
		BackgroundTimeout: time.Second * 5,
	})
	t.Cleanup(func() { _ = svc.Close() })

	return svc
}

var usernameSeq atomic.Int64

func login(t *testing.T, svc *Service, prefix string) (types.User, context.Context) {
	t.Helper()

	username := prefix + strconv.FormatInt(usernameSeq.Add(1), 10)
	out, err := svc.Login(context.Background(), types.Login{Username: username})
	if err != nil {
		t.Fatalf("login %q: %v", username, err)
	}

	return out.User, auth.ContextWithUser(context.Background(), out.User)
}

func befriend(t *testing.T, svc *Service, fromCtx context.Context, to types.User, toCtx context.Context) {
	t.Helper()

	request, err := svc.CreateFriendRequest(fromCtx, types.CreateFriendRequest{ToUserID: to.ID})
	if err != nil {
		t.Fatalf("create friend request: %v", err)
	}

	_, err = svc.ResolveFriendRequest(toCtx, types.ResolveFriendRequest{
		RequestID: request.ID,
		Status:    types.FriendRequestStatusAccepted,
	})
	if err != nil {
		t.Fatalf("accept friend request: %v", err)
	}
}

func TestFriendRequestFlow(t *testing.T) {
	svc := newTestService(t)

	alice, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")
	_, evilCtx := login(t, svc, "eve")

	if _, err := svc.CreateFriendRequest(aliceCtx, types.CreateFriendRequest{ToUserID: alice.ID}); !errs.IsInvalidArgument(err) {
		t.Errorf("self request: got %v, want invalid argument", err)
	}

	request, err := svc.CreateFriendRequest(aliceCtx, types.CreateFriendRequest{ToUserID: bob.ID})
	if err != nil {
		t.Fatalf("create friend request: %v", err)
	}

	if request.Status != types.FriendRequestStatusPending {
		t.Errorf("got status %s, want PENDING", request.Status)
	}

	if _, err := svc.CreateFriendRequest(aliceCtx, types.CreateFriendRequest{ToUserID: bob.ID}); !errs.IsAlreadyExists(err) {
		t.Errorf("duplicate request: got %v, want already exists", err)
	}

	pending := types.FriendRequestStatusPending
	page, err := svc.FriendRequests(bobCtx, types.ListFriendRequests{Status: &pending})
	if err != nil {
		t.Fatalf("list friend requests: %v", err)
	}

	if len(page.Items) != 1 || page.Items[0].ID != request.ID {
		t.Fatalf("got %d pending requests, want the one from alice", len(page.Items))
	}

	if page.Items[0].FromUser == nil || page.Items[0].FromUser.Username != alice.Username {
		t.Error("want from user hydrated")
	}

	resolve := types.ResolveFriendRequest{RequestID: request.ID, Status: types.FriendRequestStatusAccepted}

	if _, err := svc.ResolveFriendRequest(evilCtx, resolve); !errs.IsPermissionDenied(err) {
		t.Errorf("resolve by non-recipient: got %v, want permission denied", err)
	}

	if _, err := svc.ResolveFriendRequest(aliceCtx, resolve); !errs.IsPermissionDenied(err) {
		t.Errorf("resolve by sender: got %v, want permission denied", err)
	}

	accepted, err := svc.ResolveFriendRequest(bobCtx, resolve)
	if err != nil {
		t.Fatalf("accept friend request: %v", err)
	}

	if accepted.Status != types.FriendRequestStatusAccepted {
		t.Errorf("got status %s, want ACCEPTED", accepted.Status)
	}

	if _, err := svc.ResolveFriendRequest(bobCtx, resolve); !errs.IsInvalidState(err) {
		t.Errorf("resolve twice: got %v, want invalid state", err)
	}

	friends, err := svc.Friends(aliceCtx, types.ListFriends{})
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}

	if len(friends.Items) != 1 || friends.Items[0].ID != bob.ID {
		t.Fatalf("got %v, want just bob", friends.Items)
	}

	if _, err := svc.CreateFriendRequest(bobCtx, types.CreateFriendRequest{ToUserID: alice.ID}); !errs.IsAlreadyExists(err) {
		t.Errorf("request between friends: got %v, want already exists", err)
	}
}

func TestDualChatActivation(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindDual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if chat.Status != types.ChatStatusWaiting {
		t.Errorf("chat between strangers: got status %s, want WAITING", chat.Status)
	}

	if len(chat.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(chat.Members))
	}

	msg, err := svc.CreateMessage(aliceCtx, types.CreateMessage{ChatID: chat.ID, Content: "hi bob"})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	if msg.Status != types.MessageStatusPending {
		t.Errorf("message in waiting chat: got status %s, want PENDING", msg.Status)
	}

	// A reply does not activate a dual chat; only friendship does.
	reply, err := svc.CreateMessage(bobCtx, types.CreateMessage{ChatID: chat.ID, Content: "who is this?"})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	if reply.Status != types.MessageStatusPending {
		t.Errorf("reply in waiting dual chat: got status %s, want PENDING", reply.Status)
	}

	befriend(t, svc, aliceCtx, bob, bobCtx)

	got, err := svc.Chat(aliceCtx, types.RetrieveChat{ChatID: chat.ID})
	if err != nil {
		t.Fatalf("retrieve chat: %v", err)
	}

	if got.Status != types.ChatStatusActive {
		t.Errorf("after friendship: got status %s, want ACTIVE", got.Status)
	}

	after, err := svc.CreateMessage(aliceCtx, types.CreateMessage{ChatID: chat.ID, Content: "now we are friends"})
	if err != nil {
		t.Fatalf("create message after activation: %v", err)
	}

	if after.Status != types.MessageStatusDelivered {
		t.Errorf("message in active chat: got status %s, want DELIVERED", after.Status)
	}
}

func TestDualChatBetweenFriendsStartsActive(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")
	befriend(t, svc, aliceCtx, bob, bobCtx)

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindDual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if chat.Status != types.ChatStatusActive {
		t.Errorf("chat between friends: got status %s, want ACTIVE", chat.Status)
	}
}

func TestGroupChatActivation(t *testing.T) {
	svc := newTestService(t)

	alice, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")
	carol, _ := login(t, svc, "carol")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindGroup,
		Name:           new("weekend plans"),
		ParticipantIDs: []string{bob.ID, carol.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if chat.Status != types.ChatStatusWaiting {
		t.Errorf("new group: got status %s, want WAITING", chat.Status)
	}

	for _, m := range chat.Members {
		wantRole := types.ChatMemberRoleMember
		if m.UserID == alice.ID {
			wantRole = types.ChatMemberRoleAdmin
		}

		if m.Role != wantRole {
			t.Errorf("member %s: got role %s, want %s", m.UserID, m.Role, wantRole)
		}
	}

	first, err := svc.CreateMessage(aliceCtx, types.CreateMessage{ChatID: chat.ID, Content: "anyone up for a hike?"})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	if first.Status != types.MessageStatusPending {
		t.Errorf("creator message in waiting group: got status %s, want PENDING", first.Status)
	}

	// The first reply from anyone but the creator activates the group.
	reply, err := svc.CreateMessage(bobCtx, types.CreateMessage{ChatID: chat.ID, Content: "count me in"})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	if reply.Status != types.MessageStatusDelivered {
		t.Errorf("activating reply: got status %s, want DELIVERED", reply.Status)
	}

	got, err := svc.Chat(aliceCtx, types.RetrieveChat{ChatID: chat.ID})
	if err != nil {
		t.Fatalf("retrieve chat: %v", err)
	}

	if got.Status != types.ChatStatusActive {
		t.Errorf("after reply: got status %s, want ACTIVE", got.Status)
	}
}

func TestGroupMessageDeliversToAllFriendAudience(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")
	carol, carolCtx := login(t, svc, "carol")
	befriend(t, svc, aliceCtx, bob, bobCtx)
	befriend(t, svc, aliceCtx, carol, carolCtx)

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindGroup,
		Name:           new("old friends"),
		ParticipantIDs: []string{bob.ID, carol.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if chat.Status != types.ChatStatusWaiting {
		t.Errorf("new group: got status %s, want WAITING", chat.Status)
	}

	// The group is still waiting, but every other member is a friend
	// of the sender, so the message delivers right away.
	msg, err := svc.CreateMessage(aliceCtx, types.CreateMessage{ChatID: chat.ID, Content: "long time no see"})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	if msg.Status != types.MessageStatusDelivered {
		t.Errorf("message to all-friend group: got status %s, want DELIVERED", msg.Status)
	}
}

func TestChatMembership(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")
	carol, _ := login(t, svc, "carol")
	_, strangerCtx := login(t, svc, "eve")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindGroup,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if _, err := svc.Chat(strangerCtx, types.RetrieveChat{ChatID: chat.ID}); !errs.IsPermissionDenied(err) {
		t.Errorf("stranger retrieving chat: got %v, want permission denied", err)
	}

	if _, err := svc.CreateMessage(strangerCtx, types.CreateMessage{ChatID: chat.ID, Content: "hello"}); !errs.IsPermissionDenied(err) {
		t.Errorf("stranger messaging chat: got %v, want permission denied", err)
	}

	if _, err := svc.UpdateChatMembers(strangerCtx, types.UpdateChatMembers{
		ChatID:        chat.ID,
		RemoveUserIDs: []string{bob.ID},
	}); !errs.IsPermissionDenied(err) {
		t.Errorf("stranger removing member: got %v, want permission denied", err)
	}

	updated, err := svc.UpdateChatMembers(aliceCtx, types.UpdateChatMembers{
		ChatID:     chat.ID,
		AddUserIDs: []string{carol.ID},
	})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}

	if len(updated.Members) != 3 {
		t.Fatalf("got %d members, want 3", len(updated.Members))
	}

	if _, err := svc.UpdateChatMembers(aliceCtx, types.UpdateChatMembers{
		ChatID:     chat.ID,
		AddUserIDs: []string{carol.ID},
	}); !errs.IsAlreadyExists(err) {
		t.Errorf("re-adding member: got %v, want already exists", err)
	}

	updated, err = svc.UpdateChatMembers(bobCtx, types.UpdateChatMembers{
		ChatID:        chat.ID,
		RemoveUserIDs: []string{carol.ID},
	})
	if err != nil {
		t.Fatalf("remove member: %v", err)
	}

	if len(updated.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(updated.Members))
	}

	if _, err := svc.UpdateChatMembers(aliceCtx, types.UpdateChatMembers{
		ChatID:        chat.ID,
		RemoveUserIDs: []string{carol.ID},
	}); !errs.IsNotFound(err) {
		t.Errorf("removing non-member: got %v, want not found", err)
	}

	if _, err := svc.UpdateChatMembers(aliceCtx, types.UpdateChatMembers{
		ChatID:        chat.ID,
		RemoveUserIDs: []string{bob.ID},
	}); !errs.IsInvalidState(err) {
		t.Errorf("shrinking group below two: got %v, want invalid state", err)
	}
}

func TestDualChatMembersImmutable(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, _ := login(t, svc, "bob")
	carol, _ := login(t, svc, "carol")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindDual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if _, err := svc.UpdateChatMembers(aliceCtx, types.UpdateChatMembers{
		ChatID:     chat.ID,
		AddUserIDs: []string{carol.ID},
	}); !errs.IsInvalidState(err) {
		t.Errorf("adding to dual chat: got %v, want invalid state", err)
	}
}

func TestMessageStatusTransitions(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")
	_, strangerCtx := login(t, svc, "eve")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindDual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	msg, err := svc.CreateMessage(aliceCtx, types.CreateMessage{ChatID: chat.ID, Content: "hi"})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	if msg.Status != types.MessageStatusPending {
		t.Fatalf("got status %s, want PENDING", msg.Status)
	}

	// READ before DELIVERED skips a step.
	if _, err := svc.UpdateMessageStatus(bobCtx, types.UpdateMessageStatus{
		MessageID: msg.ID,
		Status:    types.MessageStatusRead,
	}); !errs.IsInvalidState(err) {
		t.Errorf("pending to read: got %v, want invalid state", err)
	}

	// The author cannot advance their own message.
	if _, err := svc.UpdateMessageStatus(aliceCtx, types.UpdateMessageStatus{
		MessageID: msg.ID,
		Status:    types.MessageStatusDelivered,
	}); !errs.IsPermissionDenied(err) {
		t.Errorf("author advancing own message: got %v, want permission denied", err)
	}

	if _, err := svc.UpdateMessageStatus(strangerCtx, types.UpdateMessageStatus{
		MessageID: msg.ID,
		Status:    types.MessageStatusDelivered,
	}); !errs.IsPermissionDenied(err) {
		t.Errorf("stranger advancing message: got %v, want permission denied", err)
	}

	delivered, err := svc.UpdateMessageStatus(bobCtx, types.UpdateMessageStatus{
		MessageID: msg.ID,
		Status:    types.MessageStatusDelivered,
	})
	if err != nil {
		t.Fatalf("advance to delivered: %v", err)
	}

	if delivered.Status != types.MessageStatusDelivered {
		t.Errorf("got status %s, want DELIVERED", delivered.Status)
	}

	// Repeating the current status is an idempotent no-op.
	again, err := svc.UpdateMessageStatus(bobCtx, types.UpdateMessageStatus{
		MessageID: msg.ID,
		Status:    types.MessageStatusDelivered,
	})
	if err != nil {
		t.Fatalf("repeat delivered: %v", err)
	}

	if again.Status != types.MessageStatusDelivered {
		t.Errorf("got status %s, want DELIVERED", again.Status)
	}

	read, err := svc.UpdateMessageStatus(bobCtx, types.UpdateMessageStatus{
		MessageID: msg.ID,
		Status:    types.MessageStatusRead,
	})
	if err != nil {
		t.Fatalf("advance to read: %v", err)
	}

	if read.Status != types.MessageStatusRead {
		t.Errorf("got status %s, want READ", read.Status)
	}

	if _, err := svc.UpdateMessageStatus(bobCtx, types.UpdateMessageStatus{
		MessageID: msg.ID,
		Status:    types.MessageStatusPending,
	}); !errs.IsInvalidState(err) {
		t.Errorf("read back to pending: got %v, want invalid state", err)
	}
}

func TestMessagesListing(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindDual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	for i := range 3 {
		_, err := svc.CreateMessage(aliceCtx, types.CreateMessage{
			ChatID:  chat.ID,
			Content: fmt.Sprintf("message %d", i),
		})
		if err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
	}

	page, err := svc.Messages(bobCtx, types.ListMessages{
		ChatID:   chat.ID,
		PageArgs: types.PageArgs{First: new(uint(2))},
	})
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("got %d messages, want 2", len(page.Items))
	}

	// Newest first.
	if page.Items[0].Content != "message 2" {
		t.Errorf("got %q first, want newest message", page.Items[0].Content)
	}

	if !page.PageInfo.HasNextPage {
		t.Error("want next page")
	}

	if page.Items[0].User == nil {
		t.Error("want message user hydrated")
	}

	rest, err := svc.Messages(bobCtx, types.ListMessages{
		ChatID:   chat.ID,
		PageArgs: types.PageArgs{First: new(uint(2)), After: page.PageInfo.EndCursor},
	})
	if err != nil {
		t.Fatalf("list next page: %v", err)
	}

	if len(rest.Items) != 1 || rest.Items[0].Content != "message 0" {
		t.Fatalf("got %v, want the oldest message", rest.Items)
	}
}

func TestMessageMediaRoundTrip(t *testing.T) {
	svc := newTestService(t)

	alice, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindDual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	media := []types.MediaInput{
		{Type: types.MediaTypeImage, URL: "https://cdn.example.org/hike.jpg"},
		{Type: types.MediaTypeFile, URL: "https://cdn.example.org/trail.gpx"},
	}

	msg, err := svc.CreateMessage(aliceCtx, types.CreateMessage{
		ChatID:  chat.ID,
		Content: "look at this",
		Media:   media,
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	if len(msg.Media) != len(media) {
		t.Fatalf("got %d media items, want %d", len(msg.Media), len(media))
	}

	byURL := map[string]types.Media{}
	for _, m := range msg.Media {
		byURL[m.URL] = m
	}

	for _, in := range media {
		got, ok := byURL[in.URL]
		if !ok {
			t.Errorf("media %q missing from message", in.URL)
			continue
		}

		if got.Type != in.Type {
			t.Errorf("media %q: got type %s, want %s", in.URL, got.Type, in.Type)
		}

		if got.UserID == nil || *got.UserID != alice.ID {
			t.Errorf("media %q: want alice as owner", in.URL)
		}

		if got.MessageID == nil || *got.MessageID != msg.ID {
			t.Errorf("media %q: want it attached to the message", in.URL)
		}
	}

	page, err := svc.Messages(bobCtx, types.ListMessages{ChatID: chat.ID})
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}

	if len(page.Items) != 1 || len(page.Items[0].Media) != len(media) {
		t.Fatalf("listing: got %+v, want the message with both media items", page.Items)
	}
}

func TestChatStream(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")
	_, strangerCtx := login(t, svc, "eve")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindDual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if _, err := svc.ChatStream(strangerCtx, types.RetrieveChat{ChatID: chat.ID}); !errs.IsPermissionDenied(err) {
		t.Fatalf("stranger subscribing: got %v, want permission denied", err)
	}

	streamCtx, cancel := context.WithCancel(bobCtx)
	defer cancel()

	events, err := svc.ChatStream(streamCtx, types.RetrieveChat{ChatID: chat.ID})
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}

	msg, err := svc.CreateMessage(aliceCtx, types.CreateMessage{ChatID: chat.ID, Content: "ping"})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Type != types.ChatEventMessageCreated {
			t.Errorf("got event type %s, want %s", ev.Type, types.ChatEventMessageCreated)
		}

		if ev.Message == nil || ev.Message.ID != msg.ID {
			t.Error("want the created message in the event")
		}
	case <-time.After(time.Second * 5):
		t.Fatal("timed out waiting for chat event")
	}
}

func TestChatStreamKeepsEventOrder(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")

	chat, err := svc.CreateChat(aliceCtx, types.CreateChat{
		Kind:           types.ChatKindDual,
		ParticipantIDs: []string{bob.ID},
	})
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	streamCtx, cancel := context.WithCancel(bobCtx)
	defer cancel()

	events, err := svc.ChatStream(streamCtx, types.RetrieveChat{ChatID: chat.ID})
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}

	const n = 5
	go func() {
		for i := range n {
			ev := types.ChatEvent{
				Type:    types.ChatEventMessageCreated,
				Message: &types.Message{ID: strconv.Itoa(i)},
			}

			var b bytes.Buffer
			if err := gob.NewEncoder(&b).Encode(ev); err != nil {
				return
			}

			_ = svc.PubSub.Pub(chatTopic(chat.ID), b.Bytes())
		}
	}()

	for i := range n {
		select {
		case ev := <-events:
			if ev.Message == nil || ev.Message.ID != strconv.Itoa(i) {
				t.Fatalf("event %d: got %+v, want events in publish order", i, ev.Message)
			}
		case <-time.After(time.Second * 5):
			t.Fatal("timed out waiting for chat event")
		}
	}
}

func TestPresence(t *testing.T) {
	svc := newTestService(t)

	_, aliceCtx := login(t, svc, "alice")
	bob, bobCtx := login(t, svc, "bob")
	befriend(t, svc, aliceCtx, bob, bobCtx)

	if err := svc.SetPresence(bobCtx, types.PresenceStatusOnline); err != nil {
		t.Fatalf("set presence: %v", err)
	}

	statuses, err := svc.FriendsPresence(aliceCtx)
	if err != nil {
		t.Fatalf("friends presence: %v", err)
	}

	if len(statuses) != 1 || statuses[0].UserID != bob.ID || statuses[0].Status != types.PresenceStatusOnline {
		t.Fatalf("got %v, want bob online", statuses)
	}

	if err := svc.SetPresence(bobCtx, types.PresenceStatusOffline); err != nil {
		t.Fatalf("set presence: %v", err)
	}

	statuses, err = svc.FriendsPresence(aliceCtx)
	if err != nil {
		t.Fatalf("friends presence: %v", err)
	}

	if len(statuses) != 1 || statuses[0].Status != types.PresenceStatusOffline {
		t.Fatalf("got %v, want bob offline", statuses)
	}
}
