package relay_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bjaus/relay"
)

type userParams struct {
	ID int
}

type user struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type userError struct {
	msg string
}

func (e *userError) Error() string { return e.msg }

// Example assembles a one-route application, feeds it three wire envelopes,
// and prints the responses: a typed success, an application error mapped to
// 422, and the not-found fallback.
func Example() {
	getUser := relay.NewRouteFunc(http.MethodGet, "/user/:id",
		func(p relay.Params) (userParams, error) {
			id, err := relay.IntParam(p, "id")
			if err != nil {
				return userParams{}, err
			}
			return userParams{ID: id}, nil
		},
		relay.EmptyDecoder(),
		relay.JSONEncoder[user](),
		func(ctx context.Context, req *relay.Request[userParams, struct{}]) (*relay.Response[user], error) {
			if req.Params.ID <= 0 {
				return nil, &userError{msg: "user id must be positive"}
			}
			return relay.OK(user{
				ID:        req.Params.ID,
				FirstName: "John",
				LastName:  "Doe",
				Email:     "john.doe@example.com",
			}), nil
		})

	table := relay.NewTable(getUser)

	emit := func(resp relay.WireResponse) {
		fmt.Printf("%s %d %s\n", resp.ID, resp.Status, resp.Body)
	}

	orch := relay.NewOrchestrator(table, emit,
		relay.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		relay.WithErrorHandler(func(id relay.RequestID, err error) relay.WireResponse {
			var uerr *userError
			status := 500
			if errors.As(err, &uerr) {
				status = 422
			}
			return relay.WireResponse{ID: id, Status: status, Body: fmt.Sprintf(`{"error":%q}`, err.Error())}
		}),
	)

	ctx := context.Background()
	orch.Receive(ctx, []byte(`{"id":"a","method":"GET","url":"/user/42","body":"","headers":[]}`))
	orch.Receive(ctx, []byte(`{"id":"b","method":"GET","url":"/user/-1","body":"","headers":[]}`))
	orch.Receive(ctx, []byte(`{"id":"c","method":"GET","url":"/nope","body":"","headers":[]}`))

	// Output:
	// a 200 {"id":42,"firstName":"John","lastName":"Doe","email":"john.doe@example.com"}
	// b 422 {"error":"user id must be positive"}
	// c 404 {"error":"Not Found"}
}
