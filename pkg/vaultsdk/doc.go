/*
Package vaultsdk is a Go client for the vault API, plus the wire types the
server itself encodes.

Public endpoints hang off Client. Signing in returns a Session, which sends
its bearer token with every call:

	client := vaultsdk.NewClient("http://localhost:5000")

	session, _, err := client.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		return err
	}

	enr, err := session.EnableAuthenticator(ctx)
	// show enr.QRCode, then confirm with a code from the app
	codes, err := session.VerifyAuthenticator(ctx, otp)

A Session holds no shared state, so several can be used side by side and a
token saved elsewhere can be resumed with Client.NewSession.

Failed requests return *APIError:

	var apiErr *vaultsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == vaultsdk.ErrorCodeInvalidOTP {
		// ask again
	}
*/
package vaultsdk
