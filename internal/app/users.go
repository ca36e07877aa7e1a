package app

import (
	"context"
	"strings"

	"forummini/pkg/domain"
	"forummini/pkg/store"
)

// CreateUser registers a user after checking the name is not taken,
// ignoring case.
func (a *App) CreateUser(ctx context.Context, userName, password string) (UserDTO, error) {
	if err := required("userName", userName); err != nil {
		return UserDTO{}, err
	}
	if err := required("password", password); err != nil {
		return UserDTO{}, err
	}

	a.usersMu.Lock()
	defer a.usersMu.Unlock()

	if err := a.ensureUserNameAvailable(ctx, userName, 0); err != nil {
		return UserDTO{}, err
	}
	created, err := a.store.Users.Add(ctx, domain.User{Username: userName, Password: password})
	if err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(created), nil
}

// UpdateUser replaces name and password of user id. The uniqueness check
// only runs when the name changes and never matches the user itself.
func (a *App) UpdateUser(ctx context.Context, id int, in UpdateUserInput) (UserDTO, error) {
	if err := checkID(id, in.ID); err != nil {
		return UserDTO{}, err
	}
	if err := required("userName", in.UserName); err != nil {
		return UserDTO{}, err
	}
	if err := required("password", in.Password); err != nil {
		return UserDTO{}, err
	}

	a.usersMu.Lock()
	defer a.usersMu.Unlock()

	existing, err := a.store.Users.GetSingle(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}
	if existing.Username != in.UserName {
		if err := a.ensureUserNameAvailable(ctx, in.UserName, id); err != nil {
			return UserDTO{}, err
		}
	}
	existing.Username = in.UserName
	existing.Password = in.Password
	if err := a.store.Users.Update(ctx, existing); err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(existing), nil
}

// DeleteUser removes user id. Posts and comments by the user are kept.
func (a *App) DeleteUser(ctx context.Context, id int) error {
	a.usersMu.Lock()
	defer a.usersMu.Unlock()
	return a.store.Users.Delete(ctx, id)
}

func (a *App) GetUser(ctx context.Context, id int) (UserDTO, error) {
	user, err := a.store.Users.GetSingle(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(user), nil
}

// ListUsers returns users whose name contains userName, ignoring case.
// A blank userName lists everyone.
func (a *App) ListUsers(ctx context.Context, userName string) ([]UserDTO, error) {
	users, err := a.store.Users.GetMany(ctx)
	if err != nil {
		return nil, err
	}
	users = store.Filter(users, store.ContainsFold(userNameOf, userName))
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return out, nil
}

func (a *App) ensureUserNameAvailable(ctx context.Context, userName string, exceptID int) error {
	users, err := a.store.Users.GetMany(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID != exceptID && strings.EqualFold(u.Username, userName) {
			return domain.Validation("Username '%s' is already taken", userName)
		}
	}
	return nil
}

// usersByID indexes users for author resolution.
func usersByID(users []domain.User) map[int]domain.User {
	out := make(map[int]domain.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}

func userNameOf(u domain.User) string { return u.Username }
