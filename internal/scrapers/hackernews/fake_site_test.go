package hackernews

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"hnassist/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

// fakeSite serves both the json api (under /v0) and the server rendered site.
// Item pages only show the vote arrow and reply form to a logged in user, like the
// real site does.
type fakeSite struct {
	server *httptest.Server

	mutex        sync.Mutex
	itemRequests []string
	pageRequests int
	logins       []url.Values
	votes        []url.Values
	comments     []url.Values

	// loginBody is the body returned by POST /login
	loginBody string
	// brokenItems maps an id to the raw response the api gives for it
	brokenItems map[string]func(w http.ResponseWriter)
	// hidePageTokens removes the vote arrow and reply form even when logged in
	hidePageTokens bool
	// actionStatus, when set, is the status login, vote and comment answer with
	actionStatus int
}

func newFakeSite(t *testing.T) *fakeSite {
	site := &fakeSite{
		loginBody:   "<html><body><a href=\"news\">Hacker News</a></body></html>",
		brokenItems: map[string]func(w http.ResponseWriter){},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v0/item/{file}", site.handleItem)
	mux.HandleFunc("GET /v0/{list}", site.handleStoryList)
	mux.HandleFunc("GET /item", site.handleItemPage)
	mux.HandleFunc("GET /vote", site.handleVote)
	mux.HandleFunc("POST /login", site.handleLogin)
	mux.HandleFunc("POST /comment", site.handleComment)
	mux.HandleFunc("GET /news", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>front page</body></html>"))
	})

	site.server = httptest.NewServer(mux)
	t.Cleanup(site.server.Close)
	return site
}

func (s *fakeSite) config() Config {
	return Config{
		ApiBase:        s.server.URL + "/v0",
		SiteBase:       s.server.URL,
		TimeoutSeconds: 5,
	}
}

func (s *fakeSite) handleItem(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.itemRequests = append(s.itemRequests, r.URL.Path)
	broken := s.brokenItems
	s.mutex.Unlock()

	id := strings.TrimSuffix(r.PathValue("file"), ".json")
	if respond, ok := broken[id]; ok {
		respond(w)
		return
	}

	// lower ids answer later so completion order is the reverse of request order
	n, err := strconv.Atoi(id)
	if err == nil && n < 40 {
		time.Sleep(time.Duration(40-n) * time.Millisecond)
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"id": %q, "type": "story", "by": "pg", "title": "story %s", "score": 10}`, id, id)
}

func (s *fakeSite) handleStoryList(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("list") != "topstories.json" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`[8863, 8864, 8865]`))
}

func loggedIn(r *http.Request) bool {
	c, err := r.Cookie("user")
	return err == nil && c.Value != ""
}

func (s *fakeSite) handleItemPage(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.pageRequests++
	hide := s.hidePageTokens
	s.mutex.Unlock()

	id := r.URL.Query().Get("id")
	var page strings.Builder
	page.WriteString("<html><body><table>")
	fmt.Fprintf(&page, `<tr class="athing" id="%s"><td class="votelinks">`, id)
	if loggedIn(r) && !hide {
		fmt.Fprintf(
			&page,
			`<a id="up_%s" href="vote?id=%s&amp;how=up&amp;auth=auth-%s&amp;goto=item%%3Fid%%3D%s"><div class="votearrow"></div></a>`,
			id, id, id, id,
		)
	}
	page.WriteString(`</td><td class="title">a story</td></tr></table>`)
	if loggedIn(r) && !hide {
		fmt.Fprintf(
			&page,
			`<form action="comment" method="post"><input type="hidden" name="parent" value="%s"><input type="hidden" name="goto" value="item?id=%s"><input type="hidden" name="hmac" value="hmac-%s"><textarea name="text"></textarea></form>`,
			id, id, id,
		)
	}
	page.WriteString("</body></html>")
	w.Write([]byte(page.String()))
}

func (s *fakeSite) setActionStatus(status int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.actionStatus = status
}

// failAction answers with actionStatus if it is set.
func (s *fakeSite) failAction(w http.ResponseWriter) bool {
	s.mutex.Lock()
	status := s.actionStatus
	s.mutex.Unlock()
	if status == 0 {
		return false
	}
	http.Error(w, http.StatusText(status), status)
	return true
}

func (s *fakeSite) handleVote(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.votes = append(s.votes, r.URL.Query())
	s.mutex.Unlock()
	if s.failAction(w) {
		return
	}
	http.Redirect(w, r, "/news", http.StatusFound)
}

func (s *fakeSite) handleLogin(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mutex.Lock()
	s.logins = append(s.logins, r.PostForm)
	body := s.loginBody
	s.mutex.Unlock()
	if s.failAction(w) {
		return
	}

	if !strings.Contains(strings.ToLower(body), "bad login") {
		http.SetCookie(w, &http.Cookie{Name: "user", Value: r.PostForm.Get("acct") + "&hash", Path: "/"})
	}
	w.Write([]byte(body))
}

func (s *fakeSite) handleComment(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mutex.Lock()
	s.comments = append(s.comments, r.PostForm)
	s.mutex.Unlock()
	if s.failAction(w) {
		return
	}
	http.Redirect(w, r, "/item?id="+r.PostForm.Get("parent"), http.StatusFound)
}

type siteRecord struct {
	itemRequests []string
	pageRequests int
	logins       []url.Values
	votes        []url.Values
	comments     []url.Values
}

func (s *fakeSite) snapshot() siteRecord {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return siteRecord{
		itemRequests: append([]string{}, s.itemRequests...),
		pageRequests: s.pageRequests,
		logins:       append([]url.Values{}, s.logins...),
		votes:        append([]url.Values{}, s.votes...),
		comments:     append([]url.Values{}, s.comments...),
	}
}

func newTestApi(t *testing.T, site *fakeSite) (Api, *telemetry.Recorder) {
	rec := &telemetry.Recorder{}
	api, err := NewApi(site.config(), rec, nil)
	require.NoError(t, err)
	return api, rec
}
