package view

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/chatboard/chatboard/internal/model"
)

// UserForm is the add-user form input.
type UserForm struct {
	Name  string
	Email string
}

// UsersState is an immutable snapshot of the Users view.
type UsersState struct {
	Status     Status
	Users      []model.User
	Error      string
	Form       UserForm
	Registered bool
	// Deleting holds the ids with a delete request in flight.
	Deleting map[string]bool
}

// CanAdd reports whether the add form is enabled.
func (s UsersState) CanAdd() bool { return !s.Registered }

// UsersView lists users, adds one per device and deletes with confirmation.
type UsersView struct {
	api     UsersAPI
	gate    RegistrationGate
	confirm Confirmer

	// notify serialises listener delivery so lists reach listeners in
	// version order.
	notify sync.Mutex

	mu       sync.Mutex
	loading  bool
	errMsg   string
	users    []model.User
	form     UserForm
	deleting map[string]bool
	fetches  versioned
	onUsers  []func([]model.User)
}

// NewUsersView creates a view in the loading state.
func NewUsersView(api UsersAPI, gate RegistrationGate, confirm Confirmer) *UsersView {
	return &UsersView{
		api:      api,
		gate:     gate,
		confirm:  confirm,
		loading:  true,
		users:    []model.User{},
		deleting: make(map[string]bool),
	}
}

// OnUsers registers fn to receive every user list the view applies.
func (v *UsersView) OnUsers(fn func([]model.User)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onUsers = append(v.onUsers, fn)
}

// Fetch reloads the user list. A failed fetch is returned to the caller
// and leaves the view loading. Responses overtaken by a newer fetch are
// dropped.
func (v *UsersView) Fetch(ctx context.Context) error {
	v.mu.Lock()
	version := v.fetches.next()
	v.loading = true
	v.mu.Unlock()

	users, err := v.api.ListUsers(ctx)

	v.mu.Lock()
	if err != nil {
		v.mu.Unlock()
		return err
	}
	if !v.fetches.accept(version) {
		v.mu.Unlock()
		return nil
	}
	v.users = users
	if v.fetches.latest(version) {
		v.loading = false
	}
	v.mu.Unlock()

	v.notify.Lock()
	defer v.notify.Unlock()

	// A newer list may have been applied while waiting; it is delivered
	// by its own fetch.
	v.mu.Lock()
	if v.fetches.applied != version {
		v.mu.Unlock()
		return nil
	}
	listeners := v.onUsers
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(users)
	}
	return nil
}

// SetForm replaces the add-user form input.
func (v *UsersView) SetForm(name, email string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = UserForm{Name: name, Email: email}
}

// AddUser submits the form. It makes no request when a field is empty or
// the device is already registered. On success the form is cleared, the
// device is marked registered and the list is re-fetched.
func (v *UsersView) AddUser(ctx context.Context) error {
	v.mu.Lock()
	form := v.form
	if form.Name == "" || form.Email == "" {
		v.mu.Unlock()
		return ErrIncomplete
	}
	if v.gate.Registered() {
		v.errMsg = MsgAlreadyRegistered
		v.mu.Unlock()
		return ErrAlreadyRegistered
	}
	v.mu.Unlock()

	if _, err := v.api.CreateUser(ctx, form.Name, form.Email); err != nil {
		v.fail(MsgAddFailed)
		return err
	}

	v.mu.Lock()
	v.form = UserForm{}
	v.errMsg = ""
	v.mu.Unlock()

	if err := v.gate.MarkRegistered(); err != nil {
		return err
	}
	return v.Fetch(ctx)
}

// DeleteUser removes id after interactive confirmation. It returns false
// without a request when the confirmation is declined.
func (v *UsersView) DeleteUser(ctx context.Context, id string) (bool, error) {
	if !v.confirm.Confirm("Are you sure you want to delete this user?") {
		return false, nil
	}

	v.mu.Lock()
	v.deleting[id] = true
	v.mu.Unlock()

	err := v.api.DeleteUser(ctx, id)

	v.mu.Lock()
	delete(v.deleting, id)
	v.mu.Unlock()

	if err != nil {
		v.fail(MsgDeleteFailed)
		return false, err
	}

	v.mu.Lock()
	v.errMsg = ""
	v.mu.Unlock()

	return true, v.Fetch(ctx)
}

// Snapshot returns a copy of the current state.
func (v *UsersView) Snapshot() UsersState {
	registered := v.gate.Registered()

	v.mu.Lock()
	defer v.mu.Unlock()

	status := StatusReady
	switch {
	case v.loading:
		status = StatusLoading
	case v.errMsg != "":
		status = StatusError
	}

	return UsersState{
		Status:     status,
		Users:      append(make([]model.User, 0, len(v.users)), v.users...),
		Error:      v.errMsg,
		Form:       v.form,
		Registered: registered,
		Deleting:   lo.Assign(v.deleting),
	}
}

// UserByID looks up a user in the current list.
func (v *UsersView) UserByID(id string) (model.User, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return lo.Find(v.users, func(u model.User) bool { return u.ID == id })
}

func (v *UsersView) fail(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errMsg = msg
}
