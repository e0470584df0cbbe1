package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"fanclub-backend/internal/domain/comment"
	"fanclub-backend/internal/domain/forum"
	"fanclub-backend/internal/domain/poll"
	"fanclub-backend/internal/domain/user"
	"fanclub-backend/internal/football"
	"fanclub-backend/internal/news"
	"fanclub-backend/internal/platform/clock"
	jwtpkg "fanclub-backend/internal/platform/jwt"
	"fanclub-backend/internal/worker"
)

var testNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

type testUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*user.User
	byMail map[string]int64
	nextID int64
}

func newTestUserRepo() *testUserRepo {
	return &testUserRepo{
		users:  make(map[int64]*user.User),
		byMail: make(map[string]int64),
		nextID: 1,
	}
}

func (r *testUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	copyUser := *u
	r.users[u.ID] = &copyUser
	r.byMail[u.Email] = u.ID
	return nil
}

func (r *testUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byMail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyUser := *r.users[id]
	return &copyUser, nil
}

func (r *testUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyUser := *u
	return &copyUser, nil
}

type testPollRepo struct {
	mu         sync.Mutex
	polls      map[int64]*poll.Poll
	opts       map[int64][]poll.Option
	votes      map[int64]map[int64]int64
	nextPollID int64
	nextOptID  int64
}

func newTestPollRepo() *testPollRepo {
	return &testPollRepo{
		polls:      make(map[int64]*poll.Poll),
		opts:       make(map[int64][]poll.Option),
		votes:      make(map[int64]map[int64]int64),
		nextPollID: 1,
		nextOptID:  1,
	}
}

func (r *testPollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextPollID
	r.nextPollID++
	p.CreatedAt = testNow.Add(time.Duration(p.ID) * time.Minute)
	copyPoll := *p
	r.polls[p.ID] = &copyPoll

	cloned := make([]poll.Option, len(options))
	for i := range options {
		options[i].ID = r.nextOptID
		r.nextOptID++
		options[i].PollID = p.ID
		options[i].CreatedAt = p.CreatedAt
		cloned[i] = options[i]
	}
	r.opts[p.ID] = cloned
	return p.ID, nil
}

func (r *testPollRepo) ListActive(ctx context.Context, now time.Time) ([]poll.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []poll.Poll
	for _, p := range r.polls {
		if p.EndDate.Before(now) {
			continue
		}
		res = append(res, *p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (r *testPollRepo) OptionsByPoll(ctx context.Context, pollID int64) ([]poll.Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	opts := r.opts[pollID]
	copied := make([]poll.Option, len(opts))
	copy(copied, opts)
	return copied, nil
}

func (r *testPollRepo) VoteCountsByPoll(ctx context.Context, pollID int64) (map[int64]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make(map[int64]int64)
	for _, optID := range r.votes[pollID] {
		res[optID]++
	}
	return res, nil
}

func (r *testPollRepo) UserVote(ctx context.Context, pollID, userID int64) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	optID, ok := r.votes[pollID][userID]
	return optID, ok, nil
}

func (r *testPollRepo) UpsertVote(ctx context.Context, v *poll.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.votes[v.PollID] == nil {
		r.votes[v.PollID] = make(map[int64]int64)
	}
	r.votes[v.PollID][v.UserID] = v.OptionID
	return nil
}

func (r *testPollRepo) ExpiredPollIDs(ctx context.Context, now time.Time) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for _, p := range r.polls {
		if p.EndDate.Before(now) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *testPollRepo) DeletePolls(ctx context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.votes, id)
		delete(r.opts, id)
		delete(r.polls, id)
	}
	return nil
}

type testForumRepo struct {
	mu         sync.Mutex
	forums     []forum.Forum
	posts      map[int64]*forum.Post
	comments   map[int64][]forum.Comment
	nextPostID int64
	nextCmtID  int64
}

func newTestForumRepo() *testForumRepo {
	return &testForumRepo{
		posts:      make(map[int64]*forum.Post),
		comments:   make(map[int64][]forum.Comment),
		nextPostID: 1,
		nextCmtID:  1,
	}
}

func (r *testForumRepo) ListForums(ctx context.Context) ([]forum.Forum, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]forum.Forum, len(r.forums))
	copy(res, r.forums)
	return res, nil
}

func (r *testForumRepo) ListPosts(ctx context.Context, category *string) ([]forum.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []forum.Post
	for _, p := range r.posts {
		if category != nil && p.Category != *category {
			continue
		}
		res = append(res, *p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (r *testForumRepo) GetPost(ctx context.Context, id int64) (*forum.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyPost := *p
	return &copyPost, nil
}

func (r *testForumRepo) CreatePost(ctx context.Context, p *forum.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextPostID
	r.nextPostID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	copyPost := *p
	r.posts[p.ID] = &copyPost
	return nil
}

func (r *testForumRepo) ListComments(ctx context.Context, postID int64) ([]forum.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cmts := r.comments[postID]
	res := make([]forum.Comment, len(cmts))
	copy(res, cmts)
	return res, nil
}

func (r *testForumRepo) CreateComment(ctx context.Context, c *forum.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextCmtID
	r.nextCmtID++
	c.CreatedAt = time.Now()
	r.comments[c.PostID] = append(r.comments[c.PostID], *c)
	return nil
}

type testCommentRepo struct {
	mu       sync.Mutex
	comments map[int64]*comment.Comment
	nextID   int64
}

func newTestCommentRepo() *testCommentRepo {
	return &testCommentRepo{comments: make(map[int64]*comment.Comment), nextID: 1}
}

func (r *testCommentRepo) ListByTarget(ctx context.Context, target string, targetID int64) ([]comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []comment.Comment
	for _, c := range r.comments {
		if c.Target == target && c.TargetID == targetID {
			res = append(res, *c)
		}
	}
	return res, nil
}

func (r *testCommentRepo) Create(ctx context.Context, c *comment.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	copyComment := *c
	r.comments[c.ID] = &copyComment
	return nil
}

func (r *testCommentRepo) GetByID(ctx context.Context, id int64) (*comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyComment := *c
	return &copyComment, nil
}

func (r *testCommentRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func setupServer(t *testing.T) (*httptest.Server, *testPollRepo, func()) {
	t.Helper()
	userRepo := newTestUserRepo()
	pollRepo := newTestPollRepo()
	forumRepo := newTestForumRepo()
	commentRepo := newTestCommentRepo()

	userSvc := user.NewService(userRepo)
	pollSvc := poll.NewService(pollRepo, clock.Fixed{T: testNow})
	forumSvc := forum.NewService(forumRepo)
	commentSvc := comment.NewService(commentRepo)

	newsClient := news.NewClient("http://127.0.0.1:0", "", "")
	footballClient := football.NewClient("http://127.0.0.1:0", "", "61")

	jwtMgr := jwtpkg.NewManager("secret", "test-issuer")
	voteCh := make(chan worker.VoteEvent, 100)

	server := httptest.NewServer(NewRouter(userSvc, pollSvc, forumSvc, commentSvc, newsClient, footballClient, jwtMgr, voteCh, &sql.DB{}))
	cleanup := func() {
		server.Close()
		close(voteCh)
	}
	return server, pollRepo, cleanup
}

func registerAndToken(t *testing.T, serverURL, email string) string {
	t.Helper()
	body, _ := json.Marshal(authRequest{Email: email, Password: "pass123"})
	resp, err := http.Post(serverURL+"/api/v1/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatalf("token missing")
	}
	return token
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, url, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func createPollViaAPI(t *testing.T, serverURL, token string, req createPollRequest) int64 {
	t.Helper()
	resp := doJSON(t, http.MethodPost, serverURL+"/api/v1/polls", token, req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 create poll, got %d", resp.StatusCode)
	}
	var payload map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode create poll: %v", err)
	}
	return payload["id"]
}

func listPolls(t *testing.T, serverURL, token string) []poll.View {
	t.Helper()
	resp := doJSON(t, http.MethodGet, serverURL+"/api/v1/polls", token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 list polls, got %d", resp.StatusCode)
	}
	var views []poll.View
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		t.Fatalf("decode polls: %v", err)
	}
	return views
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestCreatePollRequiresAuth(t *testing.T) {
	server, _, cleanup := setupServer(t)
	defer cleanup()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/polls", "", createPollRequest{
		Title:       "Man of the Match?",
		Description: "Vote now",
		EndDate:     testNow.Add(7 * 24 * time.Hour).Format(time.RFC3339),
		Options:     []string{"Yes", "No"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous create, got %d", resp.StatusCode)
	}
}

func TestPollCreateListVoteFlow(t *testing.T) {
	server, pollRepo, cleanup := setupServer(t)
	defer cleanup()

	token := registerAndToken(t, server.URL, "fan@club.com")

	pollID := createPollViaAPI(t, server.URL, token, createPollRequest{
		Title:       "Man of the Match?",
		Description: "Vote now",
		EndDate:     testNow.Add(7 * 24 * time.Hour).Format(time.RFC3339),
		Options:     []string{"Yes", "No"},
	})

	// anonymous listing: poll visible, zero votes, no selection
	views := listPolls(t, server.URL, "")
	if len(views) != 1 || views[0].ID != pollID {
		t.Fatalf("expected created poll in listing, got %+v", views)
	}
	if len(views[0].Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(views[0].Options))
	}
	for _, o := range views[0].Options {
		if o.Votes != 0 {
			t.Fatalf("fresh poll must show zero votes")
		}
	}
	if views[0].UserVote != nil {
		t.Fatalf("anonymous caller must have no selection")
	}

	opts := pollRepo.opts[pollID]

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/polls/"+itoa(pollID)+"/vote", token, voteRequest{OptionID: opts[0].ID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 first vote, got %d", resp.StatusCode)
	}

	// changing the vote keeps exactly one counted vote
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/polls/"+itoa(pollID)+"/vote", token, voteRequest{OptionID: opts[1].ID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 changed vote, got %d", resp.StatusCode)
	}

	views = listPolls(t, server.URL, token)
	if views[0].UserVote == nil || *views[0].UserVote != opts[1].ID {
		t.Fatalf("expected selection %d, got %v", opts[1].ID, views[0].UserVote)
	}
	var total int64
	for _, o := range views[0].Options {
		total += o.Votes
	}
	if total != 1 {
		t.Fatalf("expected exactly one counted vote, got %d", total)
	}
}

func TestCleanupEndpoint(t *testing.T) {
	server, pollRepo, cleanup := setupServer(t)
	defer cleanup()

	token := registerAndToken(t, server.URL, "fan@club.com")

	// nothing expired yet: cleanup succeeds and deletes nothing
	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/polls/cleanup", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 cleanup, got %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode cleanup: %v", err)
	}
	resp.Body.Close()
	if payload["success"] != true || payload["deleted"].(float64) != 0 {
		t.Fatalf("expected no-op cleanup, got %+v", payload)
	}

	expired := createPollViaAPI(t, server.URL, token, createPollRequest{
		Title:       "Yesterday's poll",
		Description: "Too late",
		EndDate:     testNow.Add(-time.Second).Format(time.RFC3339),
		Options:     []string{"a", "b"},
	})

	// expired polls never show up in the listing even before cleanup runs
	for _, v := range listPolls(t, server.URL, "") {
		if v.ID == expired {
			t.Fatalf("expired poll leaked into listing")
		}
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/polls/cleanup", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 cleanup, got %d", resp.StatusCode)
	}
	payload = map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode cleanup: %v", err)
	}
	resp.Body.Close()
	if payload["deleted"].(float64) != 1 {
		t.Fatalf("expected 1 deleted, got %+v", payload)
	}

	pollRepo.mu.Lock()
	_, pollLeft := pollRepo.polls[expired]
	optsLeft := len(pollRepo.opts[expired])
	votesLeft := len(pollRepo.votes[expired])
	pollRepo.mu.Unlock()
	if pollLeft || optsLeft != 0 || votesLeft != 0 {
		t.Fatalf("cleanup must remove poll, options and votes")
	}
}

func TestForumPostAndCommentFlow(t *testing.T) {
	server, _, cleanup := setupServer(t)
	defer cleanup()

	token := registerAndToken(t, server.URL, "fan@club.com")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/forums/posts", token, createPostRequest{
		Title:   "Great win today",
		Content: "What a performance at the Bridge",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 create post, got %d", resp.StatusCode)
	}
	var post forum.Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	resp.Body.Close()
	if post.Category != "general" {
		t.Fatalf("expected default category, got %q", post.Category)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/forums/posts/"+itoa(post.ID)+"/comments", token, addForumCommentRequest{
		Content: "Agreed!",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 add comment, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/forums/posts/"+itoa(post.ID)+"/comments", "", nil)
	var comments []forum.Comment
	if err := json.NewDecoder(resp.Body).Decode(&comments); err != nil {
		t.Fatalf("decode comments: %v", err)
	}
	resp.Body.Close()
	if len(comments) != 1 || comments[0].Content != "Agreed!" {
		t.Fatalf("unexpected comments %+v", comments)
	}

	// commenting on a missing post is a 404
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/forums/posts/9999/comments", token, addForumCommentRequest{Content: "hi"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing post, got %d", resp.StatusCode)
	}
}

func TestCommentOwnership(t *testing.T) {
	server, _, cleanup := setupServer(t)
	defer cleanup()

	author := registerAndToken(t, server.URL, "author@club.com")
	other := registerAndToken(t, server.URL, "other@club.com")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/comments", author, addCommentRequest{
		Content:  "What a goal",
		Target:   "news",
		TargetID: 12,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 add comment, got %d", resp.StatusCode)
	}
	var c comment.Comment
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		t.Fatalf("decode comment: %v", err)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/v1/comments/"+itoa(c.ID), other, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 deleting another user's comment, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/v1/comments/"+itoa(c.ID), author, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 author delete, got %d", resp.StatusCode)
	}
}

func TestHealthAndCleanupInfo(t *testing.T) {
	server, _, cleanup := setupServer(t)
	defer cleanup()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/v1/polls/cleanup")
	if err != nil {
		t.Fatalf("cleanup info: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 cleanup info, got %d", resp.StatusCode)
	}
}
