package cognito

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// ErrCognitoThrottled marks errors returned when Cognito throttles requests.
var ErrCognitoThrottled = errors.New("cognito throttling")

// ErrCognitoNotAuthorized marks errors returned when Cognito rejects credentials.
var ErrCognitoNotAuthorized = errors.New("cognito not authorized")

// ErrCognitoUserNotFound marks errors returned for unknown usernames.
var ErrCognitoUserNotFound = errors.New("cognito user not found")

// ErrCognitoUserExists marks errors returned when trying to create an existing user.
var ErrCognitoUserExists = errors.New("cognito user already exists")

// ErrCognitoChallenge is returned when sign-in needs a follow-up challenge
// (for example a forced password change) that this site does not handle.
var ErrCognitoChallenge = errors.New("cognito challenge required")

// RoleAttribute is the custom user attribute holding the site role.
const RoleAttribute = "custom:role"

// User is the subset of a Cognito user the site cares about.
type User struct {
	Sub   string
	Email string
	Role  string
}

type CognitoClient struct {
	client       *cognitoidentityprovider.Client
	poolID       string
	clientID     string
	clientSecret string
}

// NewClient creates a new Cognito client. An empty region is taken from the
// pool ID (format: "region_poolid").
func NewClient(ctx context.Context, region, poolID, clientID, clientSecret string) (*CognitoClient, error) {
	if region == "" {
		var err error
		if region, err = regionFromPoolID(poolID); err != nil {
			return nil, err
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &CognitoClient{
		client:       cognitoidentityprovider.NewFromConfig(awsCfg),
		poolID:       poolID,
		clientID:     clientID,
		clientSecret: clientSecret,
	}, nil
}

// SignIn runs the USER_PASSWORD_AUTH flow and returns the access token.
func (c *CognitoClient) SignIn(ctx context.Context, username, password string) (string, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if c.clientSecret != "" {
		params["SECRET_HASH"] = secretHash(c.clientSecret, c.clientID, username)
	}

	out, err := c.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(c.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return "", mapCognitoError(err)
	}
	if out.ChallengeName != "" {
		return "", fmt.Errorf("%w: %s", ErrCognitoChallenge, out.ChallengeName)
	}
	if out.AuthenticationResult == nil || out.AuthenticationResult.AccessToken == nil {
		return "", errors.New("cognito returned no access token")
	}
	return *out.AuthenticationResult.AccessToken, nil
}

// GetUser loads the user behind an access token.
func (c *CognitoClient) GetUser(ctx context.Context, accessToken string) (User, error) {
	out, err := c.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return User{}, mapCognitoError(err)
	}
	user := userFromAttributes(out.UserAttributes)
	if user.Sub == "" {
		user.Sub = aws.ToString(out.Username)
	}
	return user, nil
}

// CreateAdmin creates a pool user with the admin role and a permanent
// password. No welcome email is sent.
func (c *CognitoClient) CreateAdmin(ctx context.Context, email, password string) error {
	_, err := c.client.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:    aws.String(c.poolID),
		Username:      aws.String(email),
		MessageAction: types.MessageActionTypeSuppress,
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
			{Name: aws.String(RoleAttribute), Value: aws.String("admin")},
		},
	})
	if err != nil {
		return mapCognitoError(err)
	}
	return c.SetPassword(ctx, email, password)
}

// SetPassword sets a permanent password for an existing pool user.
func (c *CognitoClient) SetPassword(ctx context.Context, email, password string) error {
	_, err := c.client.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(c.poolID),
		Username:   aws.String(email),
		Password:   aws.String(password),
		Permanent:  true,
	})
	if err != nil {
		return mapCognitoError(err)
	}
	return nil
}

func userFromAttributes(attrs []types.AttributeType) User {
	var user User
	for _, attr := range attrs {
		value := aws.ToString(attr.Value)
		switch aws.ToString(attr.Name) {
		case "sub":
			user.Sub = value
		case "email":
			user.Email = value
		case RoleAttribute:
			user.Role = strings.TrimSpace(value)
		}
	}
	return user
}

// secretHash is Base64(HMAC_SHA256(clientSecret, username + clientID)).
func secretHash(clientSecret, clientID, username string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	_, _ = mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func mapCognitoError(err error) error {
	var throttled *types.TooManyRequestsException
	if errors.As(err, &throttled) {
		return fmt.Errorf("%w: %v", ErrCognitoThrottled, err)
	}
	var notAuthorized *types.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return fmt.Errorf("%w: %v", ErrCognitoNotAuthorized, err)
	}
	var notFound *types.UserNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrCognitoUserNotFound, err)
	}
	var userExists *types.UsernameExistsException
	if errors.As(err, &userExists) {
		return fmt.Errorf("%w: %v", ErrCognitoUserExists, err)
	}
	return err
}

func regionFromPoolID(poolID string) (string, error) {
	parts := strings.SplitN(poolID, "_", 2)
	if len(parts) < 2 || parts[0] == "" {
		return "", fmt.Errorf("invalid cognito pool id: %q", poolID)
	}
	return parts[0], nil
}
