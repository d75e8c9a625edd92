package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/Yulia-Kablukova/runenburg/bot/session"
	"github.com/Yulia-Kablukova/runenburg/bot/storage"
	"github.com/Yulia-Kablukova/runenburg/bot/texts"
)

const (
	adminID   = int64(1000)
	supportID = int64(2000)
	userChat  = int64(77)
	userID    = int64(77)
)

type fakeStore struct {
	users    []storage.User
	subs     []storage.Subscription
	nextID   int64
	settings map[string]string
	targets  []int64
	failAll  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: make(map[string]string)}
}

func (f *fakeStore) CreateUser(ctx context.Context, u storage.User) error {
	if f.failAll {
		return errors.New("store down")
	}
	f.users = append(f.users, u)
	return nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]storage.User, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	return f.users, nil
}

// CreateSubscription mirrors the unique tuple constraint: repeats are no-ops.
func (f *fakeStore) CreateSubscription(ctx context.Context, chatID int64, sex, brand, size string) error {
	if f.failAll {
		return errors.New("store down")
	}
	for _, sub := range f.subs {
		if sub.ChatID == chatID && sub.Sex == sex && sub.Brand == brand && sub.Size == size {
			return nil
		}
	}
	f.nextID++
	f.subs = append(f.subs, storage.Subscription{
		ID: f.nextID, ChatID: chatID, Sex: sex, Brand: brand, Size: size,
	})
	return nil
}

func (f *fakeStore) ListSubscriptions(ctx context.Context) ([]storage.Subscription, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	return f.subs, nil
}

func (f *fakeStore) ChatSubscriptions(ctx context.Context, chatID int64) ([]storage.Subscription, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	var out []storage.Subscription
	for _, sub := range f.subs {
		if sub.ChatID == chatID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeStore) TargetChats(ctx context.Context, sex string, brands, sizes []string) ([]int64, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	return f.targets, nil
}

func (f *fakeStore) DeleteSubscription(ctx context.Context, id int64) error {
	if f.failAll {
		return errors.New("store down")
	}
	for i, sub := range f.subs {
		if sub.ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteChatSubscriptions(ctx context.Context, chatID int64) error {
	if f.failAll {
		return errors.New("store down")
	}
	kept := f.subs[:0]
	for _, sub := range f.subs {
		if sub.ChatID != chatID {
			kept = append(kept, sub)
		}
	}
	f.subs = kept
	return nil
}

func (f *fakeStore) SetSetting(ctx context.Context, key, value string) error {
	if f.failAll {
		return errors.New("store down")
	}
	f.settings[key] = value
	return nil
}

func (f *fakeStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	if f.failAll {
		return "", false, errors.New("store down")
	}
	v, ok := f.settings[key]
	return v, ok, nil
}

type sentMessage struct {
	chatID int64
	text   string
	markup *tele.ReplyMarkup
}

type fakeSender struct {
	mu        sync.Mutex
	sent      []sentMessage
	posts     []sentMessage
	failPosts map[int64]bool
}

func (f *fakeSender) Send(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, markup: markup})
	return nil
}

func (f *fakeSender) SendPost(ctx context.Context, chatID int64, post session.Post, markup *tele.ReplyMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPosts[chatID] {
		return fmt.Errorf("delivery to %d refused", chatID)
	}
	f.posts = append(f.posts, sentMessage{chatID: chatID, text: post.Text, markup: markup})
	return nil
}

func (f *fakeSender) Flush() {}

func (f *fakeSender) last(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("no messages sent")
	}
	return f.sent[len(f.sent)-1]
}

func newTestEngine() (*Engine, *fakeStore, *fakeSender) {
	store := newFakeStore()
	send := &fakeSender{failPosts: make(map[int64]bool)}
	engine := New(store, send, session.NewStore(), Config{
		AdminID:        adminID,
		SupportIDs:     []int64{supportID},
		SupportContact: "@support",
		ContactURL:     "https://t.me/support",
	})
	return engine, store, send
}

func TestSubscribeAdminRefused(t *testing.T) {
	engine, _, send := newTestEngine()
	if err := engine.Subscribe(context.Background(), adminID, adminID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if got := send.last(t).text; got != texts.AdminCannotSubscribe {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestSelectionEchoesPicks(t *testing.T) {
	engine, _, send := newTestEngine()
	ctx := context.Background()

	if err := engine.SelectBrand(ctx, userChat, "nike"); err != nil {
		t.Fatalf("select brand: %v", err)
	}
	if err := engine.SelectBrand(ctx, userChat, "hoka"); err != nil {
		t.Fatalf("select brand: %v", err)
	}
	msg := send.last(t)
	if !strings.Contains(msg.text, "Nike") || !strings.Contains(msg.text, "Hoka") {
		t.Fatalf("echo missing brands: %q", msg.text)
	}
	if msg.markup == nil {
		t.Fatal("expected confirm keyboard")
	}

	// An unknown key is ignored without a reply.
	before := len(send.sent)
	if err := engine.SelectBrand(ctx, userChat, "reebok"); err != nil {
		t.Fatalf("select unknown brand: %v", err)
	}
	if len(send.sent) != before {
		t.Fatal("unknown brand key produced a reply")
	}
}

func TestConcurrentBrandPicksSingleChat(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	// Telebot runs each handler in its own goroutine, so rapid presses in
	// one chat reach the engine concurrently.
	keys := []string{"nike", "adidas", "asics", "hoka", "puma", "mizuno", "altra", "anta"}
	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			if err := engine.SelectBrand(ctx, userChat, key); err != nil {
				t.Errorf("select brand %s: %v", key, err)
			}
		}(key)
	}
	wg.Wait()

	s := engine.Sessions().Get(userChat)
	s.Lock()
	defer s.Unlock()
	if len(s.Brands) != len(keys) {
		t.Fatalf("expected %d brands, got %d (%v)", len(keys), len(s.Brands), s.Brands)
	}
}

func TestConfirmSexOnlyRepromptsSize(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()

	if err := engine.SelectBrand(ctx, userChat, "nike"); err != nil {
		t.Fatalf("select brand: %v", err)
	}
	if err := engine.SelectSex(ctx, userChat, "male"); err != nil {
		t.Fatalf("select sex: %v", err)
	}

	// Confirming with no sizes picked must persist nothing and re-prompt.
	if err := engine.Confirm(ctx, userChat, userID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(store.subs) != 0 {
		t.Fatalf("sizeless confirm created %d rows", len(store.subs))
	}
	msg := send.last(t)
	if msg.text != texts.ChooseSize {
		t.Fatalf("expected size prompt, got %q", msg.text)
	}
	if msg.markup == nil {
		t.Fatal("expected size keyboard")
	}
}

func TestConfirmRepeatCreatesNoDuplicates(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()

	pick := func() {
		t.Helper()
		if err := engine.SelectBrand(ctx, userChat, "nike"); err != nil {
			t.Fatalf("select brand: %v", err)
		}
		if err := engine.SelectSex(ctx, userChat, "male"); err != nil {
			t.Fatalf("select sex: %v", err)
		}
		if err := engine.SelectSize(ctx, userChat, "size_27"); err != nil {
			t.Fatalf("select size: %v", err)
		}
		if err := engine.Confirm(ctx, userChat, userID); err != nil {
			t.Fatalf("confirm: %v", err)
		}
	}

	pick()
	if len(store.subs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(store.subs))
	}
	pick()
	if len(store.subs) != 1 {
		t.Fatalf("re-confirming the same selection added rows: %d", len(store.subs))
	}
}

func TestConfirmWalksDimensions(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()

	// Nothing picked yet: confirm is silent.
	if err := engine.Confirm(ctx, userChat, userID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(send.sent) != 0 {
		t.Fatal("empty confirm produced a reply")
	}

	if err := engine.SelectBrand(ctx, userChat, "nike"); err != nil {
		t.Fatalf("select brand: %v", err)
	}
	if err := engine.Confirm(ctx, userChat, userID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := send.last(t).text; got != texts.ChooseSex {
		t.Fatalf("expected sex prompt, got %q", got)
	}

	if err := engine.SelectSex(ctx, userChat, "male"); err != nil {
		t.Fatalf("select sex: %v", err)
	}
	if got := send.last(t).text; got != texts.ChooseSize {
		t.Fatalf("expected size prompt, got %q", got)
	}

	if err := engine.SelectSize(ctx, userChat, "size_27"); err != nil {
		t.Fatalf("select size: %v", err)
	}
	if err := engine.SelectSize(ctx, userChat, "size_27_5"); err != nil {
		t.Fatalf("select size: %v", err)
	}
	if err := engine.Confirm(ctx, userChat, userID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if got := send.last(t).text; got != texts.Subscribed {
		t.Fatalf("expected confirmation, got %q", got)
	}
	if len(store.subs) != 2 {
		t.Fatalf("expected 2 subscription rows, got %d", len(store.subs))
	}
	for _, sub := range store.subs {
		if sub.Sex != "Мужской" || sub.Brand != "Nike" {
			t.Fatalf("unexpected row: %+v", sub)
		}
	}
	if engine.Sessions().Get(userChat).SelectionComplete() {
		t.Fatal("session not reset after confirmation")
	}
}

func TestAdminConfirmCapturesTargeting(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()

	s := engine.Sessions().Get(adminID)
	s.AddBrand("Nike")
	s.Sex = "Женский"
	s.AddSize("24,5")

	if err := engine.Confirm(ctx, adminID, adminID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(store.subs) != 0 {
		t.Fatal("admin confirm must not create subscriptions")
	}
	if got := send.last(t).text; !strings.Contains(got, "Nike") || !strings.Contains(got, texts.AwaitPostMessage) {
		t.Fatalf("unexpected summary: %q", got)
	}
	if !engine.Sessions().Get(adminID).SelectionComplete() {
		t.Fatal("targeting must survive the summary for the compose step")
	}
}

func TestBroadcastSweepIsolation(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()

	s := engine.Sessions().Get(adminID)
	s.AddBrand("Nike")
	s.Sex = "Мужской"
	s.AddSize("27")
	s.Post = &session.Post{Text: "свежий дроп"}
	store.targets = []int64{11, 22, 33}
	send.failPosts[22] = true

	if err := engine.PostSend(ctx, adminID); err != nil {
		t.Fatalf("post send: %v", err)
	}

	if len(send.posts) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(send.posts))
	}
	for _, p := range send.posts {
		if p.chatID == 22 {
			t.Fatal("failed recipient received a delivery")
		}
		if p.markup == nil {
			t.Fatal("broadcast delivery missing the contact button")
		}
	}
	if got := send.last(t).text; got != texts.PostSent {
		t.Fatalf("expected single aggregate confirmation, got %q", got)
	}
	if engine.Sessions().Get(adminID).Post != nil {
		t.Fatal("session not reset after the sweep")
	}
}

func TestPostSendWithoutMessage(t *testing.T) {
	engine, _, send := newTestEngine()
	if err := engine.PostSend(context.Background(), adminID); err != nil {
		t.Fatalf("post send: %v", err)
	}
	if got := send.last(t).text; got != texts.PostMissing {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestUnsubscribeAtBounds(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()
	_ = store.CreateSubscription(ctx, userChat, "Мужской", "Nike", "27")
	_ = store.CreateSubscription(ctx, userChat, "Мужской", "Asics", "27")

	// A stale index past the end must not delete anything and must say so.
	if err := engine.UnsubscribeAt(ctx, userChat, 5); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if len(store.subs) != 2 {
		t.Fatalf("out-of-range index deleted a row: %d left", len(store.subs))
	}
	if got := send.last(t).text; got != texts.UnsubscribeGone {
		t.Fatalf("expected stale-row reply, got %q", got)
	}

	if err := engine.UnsubscribeAt(ctx, userChat, 1); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if len(store.subs) != 1 || store.subs[0].Brand != "Nike" {
		t.Fatalf("wrong row deleted: %+v", store.subs)
	}
	if got := send.last(t).text; got != texts.UnsubscribedOne {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestUnsubscribeAll(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()
	_ = store.CreateSubscription(ctx, userChat, "Мужской", "Nike", "27")
	_ = store.CreateSubscription(ctx, 88, "Женский", "Hoka", "24,5")

	if err := engine.UnsubscribeAll(ctx, userChat); err != nil {
		t.Fatalf("unsubscribe all: %v", err)
	}
	if len(store.subs) != 1 || store.subs[0].ChatID != 88 {
		t.Fatalf("unexpected rows left: %+v", store.subs)
	}
	if got := send.last(t).text; got != texts.UnsubscribedAll {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestAllSubscriptionsRequiresStaff(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()
	_ = store.CreateSubscription(ctx, userChat, "Мужской", "Nike", "27")

	if err := engine.AllSubscriptions(ctx, userChat, userID); err != nil {
		t.Fatalf("subscriptions: %v", err)
	}
	if got := send.last(t).text; got != texts.UserAllSubsHint {
		t.Fatalf("unexpected reply: %q", got)
	}

	if err := engine.AllSubscriptions(ctx, supportID, supportID); err != nil {
		t.Fatalf("subscriptions: %v", err)
	}
	if got := send.last(t).text; !strings.Contains(got, "Nike") || !strings.Contains(got, "27: 1") {
		t.Fatalf("unexpected report: %q", got)
	}
}

func TestRateFlow(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()

	if err := engine.SetRate(ctx, adminID); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	if !engine.InFlow(adminID) {
		t.Fatal("expected an active flow after /set_rate")
	}

	// Garbage keeps the flow parked with a format hint.
	if err := engine.FlowText(ctx, adminID, "сто пять"); err != nil {
		t.Fatalf("flow text: %v", err)
	}
	if got := send.last(t).text; got != texts.NumberFormatErr {
		t.Fatalf("unexpected reply: %q", got)
	}
	if !engine.InFlow(adminID) {
		t.Fatal("parse failure must keep the flow active")
	}

	// Comma decimals are accepted.
	if err := engine.FlowText(ctx, adminID, "105,5"); err != nil {
		t.Fatalf("flow text: %v", err)
	}
	if store.settings[storage.SettingRate] != "105.5" {
		t.Fatalf("rate not stored: %q", store.settings[storage.SettingRate])
	}
	if got := send.last(t).text; got != texts.RateSaved {
		t.Fatalf("unexpected reply: %q", got)
	}
	if engine.InFlow(adminID) {
		t.Fatal("flow must reset after a saved value")
	}
}

func TestCommissionFlow(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()

	if err := engine.SetCommission(ctx, supportID); err != nil {
		t.Fatalf("set commission: %v", err)
	}
	if err := engine.FlowText(ctx, supportID, "12"); err != nil {
		t.Fatalf("flow text: %v", err)
	}
	if store.settings[storage.SettingCommission] != "12" {
		t.Fatalf("commission not stored: %q", store.settings[storage.SettingCommission])
	}
	if got := send.last(t).text; got != texts.CommissionSaved {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestGetRateUnset(t *testing.T) {
	engine, _, send := newTestEngine()
	if err := engine.GetRate(context.Background(), adminID); err != nil {
		t.Fatalf("get rate: %v", err)
	}
	if got := send.last(t).text; got != texts.SettingsMissing {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestCalculatorFlow(t *testing.T) {
	engine, store, send := newTestEngine()
	ctx := context.Background()
	store.settings[storage.SettingRate] = "100"
	store.settings[storage.SettingCommission] = "10"

	if err := engine.CalculatePrice(ctx, userChat); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if got := send.last(t).text; got != texts.CalculatePrompt {
		t.Fatalf("unexpected prompt: %q", got)
	}

	if err := engine.FlowText(ctx, userChat, "129.95"); err != nil {
		t.Fatalf("price input: %v", err)
	}
	if got := send.last(t).text; got != texts.DeliveryPrompt {
		t.Fatalf("unexpected prompt: %q", got)
	}

	if err := engine.FlowText(ctx, userChat, "20"); err != nil {
		t.Fatalf("delivery input: %v", err)
	}
	// (129.95 + 10) * 1.1 * 100 * 1.1 = 16933.95, rounded up to 17000.
	if got := send.last(t).text; got != texts.FinalPrice(17000) {
		t.Fatalf("unexpected result: %q", got)
	}
	if engine.InFlow(userChat) {
		t.Fatal("flow must reset after the result")
	}
}

func TestCalculatorWithoutSettings(t *testing.T) {
	engine, _, send := newTestEngine()
	ctx := context.Background()

	if err := engine.CalculatePrice(ctx, userChat); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if err := engine.FlowText(ctx, userChat, "100"); err != nil {
		t.Fatalf("price input: %v", err)
	}
	if err := engine.FlowText(ctx, userChat, "10"); err != nil {
		t.Fatalf("delivery input: %v", err)
	}
	if got := send.last(t).text; got != texts.SettingsMissing {
		t.Fatalf("unexpected reply: %q", got)
	}
	if engine.InFlow(userChat) {
		t.Fatal("flow must reset when settings are missing")
	}
}

func TestStartingFlowResetsSelection(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	s := engine.Sessions().Get(userChat)
	s.AddBrand("Nike")
	s.Sex = "Мужской"

	if err := engine.CalculatePrice(ctx, userChat); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(s.Brands) != 0 || s.Sex != "" {
		t.Fatal("starting a new flow must clear prior selection state")
	}
}

func TestFallbackTextRoles(t *testing.T) {
	engine, _, send := newTestEngine()
	ctx := context.Background()

	// Regular user with no active flow has lost the thread.
	if err := engine.FallbackText(ctx, userChat, userID, "привет"); err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if got := send.last(t).text; got != texts.LostContext {
		t.Fatalf("unexpected reply: %q", got)
	}

	// Admin without collected targeting gets pointed at /post.
	if err := engine.FallbackText(ctx, adminID, adminID, "текст рассылки"); err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if got := send.last(t).text; got != texts.PostHint {
		t.Fatalf("unexpected reply: %q", got)
	}

	// Admin with full targeting: the text becomes the broadcast payload.
	s := engine.Sessions().Get(adminID)
	s.AddBrand("Nike")
	s.Sex = "Мужской"
	s.AddSize("27")
	if err := engine.FallbackText(ctx, adminID, adminID, "текст рассылки"); err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if got := send.last(t).text; got != texts.PostReady {
		t.Fatalf("unexpected reply: %q", got)
	}
	if s.Post == nil || s.Post.Text != "текст рассылки" {
		t.Fatalf("payload not captured: %+v", s.Post)
	}
}

func TestFallbackPhotoCapturesPost(t *testing.T) {
	engine, _, send := newTestEngine()
	ctx := context.Background()

	s := engine.Sessions().Get(adminID)
	s.AddBrand("Hoka")
	s.Sex = "Женский"
	s.AddSize("24,5")

	if err := engine.FallbackPhoto(ctx, adminID, adminID, "file-123", "подпись"); err != nil {
		t.Fatalf("fallback photo: %v", err)
	}
	if s.Post == nil || s.Post.PhotoID != "file-123" || s.Post.Caption != "подпись" {
		t.Fatalf("photo payload not captured: %+v", s.Post)
	}
	if got := send.last(t).text; got != texts.PostReady {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestPostClearKeepsTargeting(t *testing.T) {
	engine, _, send := newTestEngine()
	ctx := context.Background()

	s := engine.Sessions().Get(adminID)
	s.AddBrand("Nike")
	s.Sex = "Мужской"
	s.AddSize("27")
	s.Post = &session.Post{Text: "черновик"}

	if err := engine.PostClear(ctx, adminID); err != nil {
		t.Fatalf("post clear: %v", err)
	}
	if s.Post != nil {
		t.Fatal("payload must be dropped")
	}
	if !s.SelectionComplete() {
		t.Fatal("targeting must survive a payload clear")
	}
	if got := send.last(t).text; got != texts.PostRetype {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestStoreFailureDegradesGracefully(t *testing.T) {
	engine, store, send := newTestEngine()
	store.failAll = true

	if err := engine.MySubscriptions(context.Background(), userChat, userID); err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	if got := send.last(t).text; got != texts.InternalError {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestMySubscriptionsAdminHint(t *testing.T) {
	engine, _, send := newTestEngine()
	if err := engine.MySubscriptions(context.Background(), adminID, adminID); err != nil {
		t.Fatalf("my subscriptions: %v", err)
	}
	if got := send.last(t).text; got != texts.AdminOwnSubsHint {
		t.Fatalf("unexpected reply: %q", got)
	}
}
