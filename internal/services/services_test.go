package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-client/internal/collection"
	"go-todo-client/internal/dates"
	"go-todo-client/internal/fakestore"
	"go-todo-client/internal/gateway"
	"go-todo-client/internal/models"
	"go-todo-client/internal/services"
	"go-todo-client/internal/session"
)

var fixedNow = time.Date(2024, 2, 2, 10, 0, 0, 0, time.Local)

type env struct {
	store   *fakestore.Store
	holder  *session.Holder
	deps    services.Deps
	svc     *services.Services
	gateway *gateway.Client
}

// setup はシード済みのfakestoreに接続したサービス一式を作り、ユーザー1を選択します。
func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := fakestore.NewStore(dates.FixedClock(fixedNow))
	require.True(t, store.Seed())
	srv := httptest.NewServer(fakestore.NewRouter(store))
	t.Cleanup(srv.Close)

	gw := gateway.New(srv.URL + "/api")
	holder := session.NewHolder(session.NewMemoryStorage(), nil)
	deps := services.Deps{
		Gateway: gw,
		Session: holder,
		Todos:   collection.NewTodos(),
		Users:   collection.NewUsers(),
		Clock:   dates.FixedClock(fixedNow),
	}
	u, err := store.FindUser(1)
	require.NoError(t, err)
	require.NoError(t, holder.Select(context.Background(), u))

	return &env{store: store, holder: holder, deps: deps, svc: services.New(deps), gateway: gw}
}

func todoIDs(todos []models.Todo) []int {
	out := []int{}
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

// failingGateway は変更系と取得系の呼び出しをすべて err で失敗させます。
type failingGateway struct {
	gateway.Gateway
	err error
}

func (f failingGateway) ListTodos(context.Context) ([]models.Todo, error) { return nil, f.err }
func (f failingGateway) ListUsers(context.Context) ([]models.User, error) { return nil, f.err }
func (f failingGateway) ListTodosByUser(context.Context, int) ([]models.Todo, error) {
	return nil, f.err
}
func (f failingGateway) GetTodo(context.Context, int) (*models.Todo, error) { return nil, f.err }
func (f failingGateway) CreateTodo(context.Context, models.TodoRequest) (*models.Todo, error) {
	return nil, f.err
}
func (f failingGateway) UpdateTodo(context.Context, int, models.TodoRequest) (*models.Todo, error) {
	return nil, f.err
}
func (f failingGateway) DeleteTodo(context.Context, int) error { return f.err }
func (f failingGateway) CreateUser(context.Context, models.UserRequest) (*models.User, error) {
	return nil, f.err
}

// usersDown はユーザー一覧の取得だけを失敗させます。
type usersDown struct {
	gateway.Gateway
}

func (usersDown) ListUsers(context.Context) ([]models.User, error) {
	return nil, &gateway.RemoteError{StatusCode: http.StatusServiceUnavailable, Body: "unavailable"}
}

// noOverdueEndpoint は期限切れエンドポイントのないストアを再現します。
type noOverdueEndpoint struct {
	gateway.Gateway
}

func (noOverdueEndpoint) ListOverdueTodos(context.Context) ([]models.Todo, error) {
	return nil, &gateway.RemoteError{StatusCode: http.StatusNotFound, Body: "Not Found"}
}

func TestTodoService_LoadAndView(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	require.NoError(t, e.svc.Todos.Load(ctx))
	assert.Equal(t, 6, e.deps.Todos.Len())
	assert.Equal(t, 3, e.deps.Users.Len())

	all, err := e.svc.Todos.View(collection.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, todoIDs(all))

	overdue, err := e.svc.Todos.View(collection.FilterOverdue)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, todoIDs(overdue))
}

func TestTodoService_LoadKeepsCachesWhenOneFetchFails(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.deps.Todos.Replace([]models.Todo{{ID: 42, Order: 1, CreatedByUserID: 1}})
	e.deps.Users.Replace([]models.User{{ID: 1, Name: "Alice"}})

	deps := e.deps
	deps.Gateway = usersDown{Gateway: e.gateway}
	err := services.NewTodoService(deps).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load data: HTTP error! status: 503")

	assert.Equal(t, []int{42}, todoIDs(e.deps.Todos.All()))
	require.Equal(t, 1, e.deps.Users.Len())
	assert.Equal(t, "Alice", e.deps.Users.NameOf(1))
}

func TestTodoService_RefreshPathsAgree(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	viaRefresh, err := e.svc.Todos.Refresh(ctx, collection.FilterOverdue)
	require.NoError(t, err)
	viaEndpoint, err := e.svc.Todos.Overdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, todoIDs(viaRefresh), todoIDs(viaEndpoint))

	mine, err := e.svc.Todos.Refresh(ctx, collection.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, todoIDs(mine))
}

func TestTodoService_OverdueFallsBackToLocalFilter(t *testing.T) {
	e := setup(t)
	deps := e.deps
	deps.Gateway = noOverdueEndpoint{Gateway: e.gateway}
	svc := services.NewTodoService(deps)

	got, err := svc.Overdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, todoIDs(got))
}

func TestTodoService_CreateReconciles(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.svc.Todos.Load(ctx))

	created, err := e.svc.Todos.Create(ctx, models.TodoForm{
		Description: "Book flights", Order: 1, DueDate: "2024-02-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.CreatedByUserID)

	view, err := e.svc.Todos.View(collection.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int{1, created.ID, 2, 3}, todoIDs(view), "ties keep fetch order, new item after")
}

func TestTodoService_CreateValidation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, before, _ := e.store.Counts()

	_, err := e.svc.Todos.Create(ctx, models.TodoForm{
		Description: "", Order: 0, PlannedDate: "2024-02-05", DueDate: "2024-02-01",
	})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "description")
	assert.Contains(t, verr.Fields, "order")
	assert.Equal(t, dates.MsgPlannedAfterDue, verr.Fields[dates.FieldPlannedDate])
	assert.Equal(t, dates.MsgDueBeforeCreated, verr.Fields[dates.FieldDueDate])

	_, after, _ := e.store.Counts()
	assert.Equal(t, before, after, "invalid form never reaches the store")
}

func TestTodoService_UpdateForcesSessionOwner(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.svc.Todos.Load(ctx))

	other, err := e.store.FindUser(2)
	require.NoError(t, err)
	require.NoError(t, e.holder.Select(ctx, other))

	// todo 1 は元々ユーザー1のもの
	updated, err := e.svc.Todos.Update(ctx, 1, models.TodoForm{Description: "Handed over", Order: 9})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.CreatedByUserID)

	got, ok := e.deps.Todos.Find(1)
	require.True(t, ok)
	assert.Equal(t, "Handed over", got.Description)
	assert.Equal(t, 9, got.Order)
}

func TestTodoService_UpdateUsesCreatedOnAsLowerBound(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.svc.Todos.Load(ctx))

	// シードの作成日は14日前なので、3日前の予定日は許可されます
	_, err := e.svc.Todos.Update(ctx, 1, models.TodoForm{
		Description: "Backdated", Order: 1, PlannedDate: "2024-01-30", DueDate: "2024-01-31",
	})
	require.NoError(t, err)

	_, err = e.svc.Todos.Update(ctx, 1, models.TodoForm{
		Description: "Too early", Order: 1, DueDate: "2024-01-01",
	})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, dates.MsgDueBeforeCreated, verr.Fields[dates.FieldDueDate])
}

func TestTodoService_DeleteReconciles(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.svc.Todos.Load(ctx))

	require.NoError(t, e.svc.Todos.Delete(ctx, 2))
	view, err := e.svc.Todos.View(collection.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, todoIDs(view))
}

func TestTodoService_FailedMutationLeavesCollectionUnchanged(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.svc.Todos.Load(ctx))
	before := e.deps.Todos.All()

	deps := e.deps
	deps.Gateway = failingGateway{err: &gateway.RemoteError{StatusCode: http.StatusInternalServerError, Body: "boom"}}
	svc := services.NewTodoService(deps)

	_, err := svc.Create(ctx, models.TodoForm{Description: "x", Order: 1})
	require.Error(t, err)
	assert.Equal(t, "Failed to create todo: HTTP error! status: 500 - boom", err.Error())

	_, err = svc.Update(ctx, 1, models.TodoForm{Description: "x", Order: 1})
	require.Error(t, err)

	require.Error(t, svc.Delete(ctx, 1))

	_, err = svc.Refresh(ctx, collection.FilterAll)
	require.Error(t, err)

	require.Error(t, svc.Load(ctx))

	assert.Equal(t, before, e.deps.Todos.All())
}

func TestTodoService_UnreachableStore(t *testing.T) {
	e := setup(t)
	deps := e.deps
	deps.Gateway = failingGateway{err: &gateway.NetworkError{BaseURL: "http://localhost:5025/api", Err: errors.New("refused")}}
	svc := services.NewTodoService(deps)

	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrUnreachable)
	assert.Contains(t, err.Error(), "Failed to load data: Network error")
}

func TestTodoService_RequiresActiveUser(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.holder.Clear(context.Background()))

	_, err := e.svc.Todos.View(collection.FilterAll)
	assert.ErrorIs(t, err, services.ErrNoActiveUser)

	_, err = e.svc.Todos.Create(context.Background(), models.TodoForm{Description: "x", Order: 1})
	assert.ErrorIs(t, err, services.ErrNoActiveUser)
}

func TestTodoService_ByDateRange(t *testing.T) {
	e := setup(t)

	got, err := e.svc.Todos.ByDateRange(context.Background(), fixedNow, fixedNow.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Order, got[i].Order)
	}
}

func TestFormFromTodo(t *testing.T) {
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	form := services.FormFromTodo(models.Todo{Description: "d", Order: 2, DueDate: &due})
	assert.Equal(t, models.TodoForm{Description: "d", Order: 2, DueDate: "2024-03-01"}, form)
}

func TestUserService(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	users, err := e.svc.Users.Load(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	found, err := e.svc.Users.Search(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob Smith", found[0].Name)

	all, err := e.svc.Users.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = e.svc.Users.Create(ctx, models.UserRequest{Name: "", Email: "bad"})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Name is required", verr.Fields["name"])
	assert.Equal(t, "Email must be a valid email address", verr.Fields["email"])

	created, err := e.svc.Users.Create(ctx, models.UserRequest{Name: "Dan", Email: "dan@example.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, e.deps.Users.All()[3].ID)

	updated, err := e.svc.Users.Update(ctx, 1, models.UserRequest{Name: "Alice J.", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Alice J.", updated.Name)
	current, ok := e.holder.Current()
	require.True(t, ok)
	assert.Equal(t, "Alice J.", current.Name, "selected user follows the update")

	require.NoError(t, e.svc.Todos.Load(ctx))
	require.NoError(t, e.svc.Users.Delete(ctx, 2))
	_, ok = e.deps.Users.Find(2)
	assert.False(t, ok)
	for _, td := range e.deps.Todos.All() {
		assert.NotEqual(t, 2, td.CreatedByUserID, "todos of the deleted user leave the cache")
	}
	assert.Equal(t, 4, e.deps.Todos.Len())

	byEmail, err := e.svc.Users.ByEmail(ctx, "dan@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestUserService_Select(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	u, err := e.svc.Users.Select(ctx, 3)
	require.NoError(t, err)
	current, ok := e.holder.Current()
	require.True(t, ok)
	assert.Equal(t, u.ID, current.ID)

	_, err = e.svc.Users.Select(ctx, 99)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	current, _ = e.holder.Current()
	assert.Equal(t, 3, current.ID)
}

func TestUserService_FailedCreateLeavesCollection(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.svc.Users.Load(ctx)
	require.NoError(t, err)

	deps := e.deps
	deps.Gateway = failingGateway{err: errors.New("down")}
	_, err = services.NewUserService(deps).Create(ctx, models.UserRequest{Name: "Eve", Email: "eve@example.com"})
	require.Error(t, err)
	assert.Equal(t, 3, e.deps.Users.Len())
}

func TestDashboardService(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	d, err := e.svc.Dashboard.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalTodos)
	assert.Equal(t, 3, d.TotalUsers)
	assert.Equal(t, 1, d.OverdueTodos)
	assert.Equal(t, 2, d.StoreOverdueTodos)
	assert.Equal(t, []int{1, 2, 3}, todoIDs(d.RecentTodos))
	assert.Equal(t, true, d.Status["hasData"])

	require.NoError(t, e.svc.Dashboard.Reset(ctx))
	assert.Zero(t, e.deps.Todos.Len())

	d, err = e.svc.Dashboard.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, d.TotalUsers)
	assert.Empty(t, d.RecentTodos)

	require.NoError(t, e.svc.Dashboard.Initialize(ctx))
	summary, err := e.svc.Dashboard.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, summary["totalTodos"])

	err = e.svc.Dashboard.Initialize(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to initialize data: HTTP error! status: 409")
}
