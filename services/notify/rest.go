package notifysvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
)

// send performs req with client, bound to ctx.
func send(ctx context.Context, client *rest.Client, req rest.Request) (*rest.Response, error) {
	httpReq, err := rest.BuildRequestObject(req)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	res, err := client.MakeRequest(httpReq.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return rest.BuildResponse(res)
}
