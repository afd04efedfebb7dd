package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal_practice/internal/api"
	"legal_practice/internal/apperrors"
	"legal_practice/internal/audit"
	"legal_practice/internal/auth"
	"legal_practice/internal/backend"
	"legal_practice/internal/db"
	"legal_practice/internal/storage"
	"legal_practice/internal/store/storetest"
	"legal_practice/internal/utils"
	"legal_practice/internal/wire"
)

type connected struct{}

func (connected) State() db.State { return db.Connected }

func TestParseKind(t *testing.T) {
	k, err := backend.ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, backend.KindDirect, k)

	k, err = backend.ParseKind(" Remote ")
	require.NoError(t, err)
	assert.Equal(t, backend.KindRemote, k)

	_, err = backend.ParseKind("firebase")
	assert.Error(t, err)
}

// exerciseBackend runs the same scenario against any implementation
func exerciseBackend(t *testing.T, b backend.Backend) {
	ctx := context.Background()

	registered, err := b.Register(ctx, wire.RegisterInput{Email: "ada@firm.test", Password: "secret", FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "ada@firm.test", registered.User.Email)

	_, err = b.Register(ctx, wire.RegisterInput{Email: "ada@firm.test", Password: "other", FirstName: "Ada", LastName: "Byron"})
	assert.True(t, apperrors.Is(err, apperrors.KindDuplicateKey), "%v", err)

	_, err = b.Login(ctx, "ada@firm.test", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized), "%v", err)

	session, err := b.Login(ctx, "ada@firm.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)
	token := session.Token

	clientID, err := b.CreateClient(ctx, token, wire.ClientInput{Name: "Acme Ltd"})
	require.NoError(t, err)

	caseID, err := b.CreateCase(ctx, token, wire.CaseInput{Client: clientID, Title: "Acme v. Beta", Status: "Pending"})
	require.NoError(t, err)

	_, err = b.CreateTask(ctx, token, wire.TaskInput{Title: "later", Priority: "low", DueDate: "2024-06-02"})
	require.NoError(t, err)
	_, err = b.CreateTask(ctx, token, wire.TaskInput{Title: "sooner", Status: "In Progress", DueDate: "2024-06-01", CaseID: caseID})
	require.NoError(t, err)

	_, err = b.CreateDocument(ctx, token, wire.DocumentInput{Name: "Pleading", CaseID: caseID})
	require.NoError(t, err)

	cases, err := b.Cases(ctx, token)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "pending", cases[0].Status)
	require.NotNil(t, cases[0].Client)
	assert.Equal(t, "Acme Ltd", cases[0].Client.Name)

	clients, err := b.Clients(ctx, token)
	require.NoError(t, err)
	require.Len(t, clients, 1)

	tasks, err := b.Tasks(ctx, token)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "sooner", tasks[0].Title)
	assert.Equal(t, "in-progress", tasks[0].Status)
	assert.Equal(t, "later", tasks[1].Title)

	docs, err := b.Documents(ctx, token)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].Case)
	assert.Equal(t, "Acme v. Beta", docs[0].Case.Title)

	_, err = b.Cases(ctx, "not-a-token")
	assert.Error(t, err)
	_, err = b.CreateTask(ctx, token, wire.TaskInput{Title: "bad date", DueDate: "someday"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation), "%v", err)
}

func newService(mem *storetest.DB, kv utils.KV) *auth.Service {
	logger, _ := test.NewNullLogger()
	return auth.NewService(mem.Users(), "backend-secret", time.Hour, auth.NewRevocations(kv), auth.NewResetTokens(kv, time.Hour), logger)
}

func TestDirect(t *testing.T) {
	mem := storetest.New()
	kv := utils.NewMemoryKV()
	logger, hook := test.NewNullLogger()
	repos := backend.Repositories{Cases: mem.Cases(), Clients: mem.Clients(), Documents: mem.Documents(), Tasks: mem.Tasks()}
	b := backend.NewDirect(newService(mem, kv), repos, kv, audit.NewLogRecorder(logger), logger)

	exerciseBackend(t, b)

	var creates int
	for _, e := range hook.AllEntries() {
		if e.Message == "Audit event" && e.Data["action"] == audit.ActionCreate {
			creates++
		}
	}
	assert.Equal(t, 5, creates)
}

func TestDirectDropsCachedLists(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()
	kv := utils.NewMemoryKV()
	logger, _ := test.NewNullLogger()
	repos := backend.Repositories{Cases: mem.Cases(), Clients: mem.Clients(), Documents: mem.Documents(), Tasks: mem.Tasks()}
	b := backend.NewDirect(newService(mem, kv), repos, kv, nil, logger)

	session, err := b.Register(ctx, wire.RegisterInput{Email: "ada@firm.test", Password: "secret", FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	key := utils.ListKey(utils.ClientsList, session.User.ID)
	require.NoError(t, kv.Set(ctx, key, "[]", time.Minute))

	_, err = b.CreateClient(ctx, session.Token, wire.ClientInput{Name: "Acme"})
	require.NoError(t, err)
	_, ok, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemote(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mem := storetest.New()
	kv := utils.NewMemoryKV()
	logger, _ := test.NewNullLogger()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	router := api.SetupRouter(&api.Deps{
		Auth:           newService(mem, kv),
		Users:          mem.Users(),
		Cases:          mem.Cases(),
		Clients:        mem.Clients(),
		Documents:      mem.Documents(),
		Tasks:          mem.Tasks(),
		Cache:          kv,
		CacheTTL:       time.Minute,
		Files:          files,
		MaxUploadBytes: 1 << 20,
		Audit:          audit.NewLogRecorder(logger),
		DB:             connected{},
		Log:            logger,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	exerciseBackend(t, backend.NewRemote(srv.URL+"/", srv.Client()))
}

func TestRemoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := backend.NewRemote(url, nil).Login(context.Background(), "a@x.test", "p")
	assert.True(t, apperrors.Is(err, apperrors.KindConnection), "%v", err)
}
