package services

// Services は同じコレクションとセッションを共有するサービス一式です。
type Services struct {
	Todos     *TodoService
	Users     *UserService
	Dashboard *DashboardService
}

// New は deps を共有する Services を作成します。
func New(deps Deps) *Services {
	deps = deps.withDefaults()
	return &Services{
		Todos:     NewTodoService(deps),
		Users:     NewUserService(deps),
		Dashboard: NewDashboardService(deps),
	}
}
