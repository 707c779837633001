/*
Package client provides a Go client for the hangar REST API.

The client wraps net/http with JSON encoding and the server's error
envelope, exposing one method per API operation. It is what the hangar
CLI uses; any Go program can embed it the same way.

# Usage

	c := client.NewClient("127.0.0.1:8420")

	deployment, err := c.Deploy(ctx, sessionID, "churn_v1")
	if err != nil {
		return err
	}
	fmt.Println(deployment.Path)

	deployments, err := c.ListDeployments(ctx)

Addresses may be bare host:port (http is assumed) or full URLs.

# Error Handling

Non-2xx responses become errors carrying the status code and the
server's error message:

	server returned 400: training session abc is pending, not completed

All methods take a context; cancellation aborts the request. The
underlying http.Client applies a 60 second overall timeout.

# See Also

  - pkg/api for the server side of this contract
  - cmd/hangar for the CLI built on this client
*/
package client
