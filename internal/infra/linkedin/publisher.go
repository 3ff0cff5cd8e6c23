package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"waitlist/internal/domain/service"

	"github.com/pkg/errors"
)

// registerUploadRequest declares intent to upload a feed image owned by
// the member.
type registerUploadRequest struct {
	RegisterUploadRequest struct {
		Recipes              []string              `json:"recipes"`
		Owner                string                `json:"owner"`
		ServiceRelationships []serviceRelationship `json:"serviceRelationships"`
	} `json:"registerUploadRequest"`
}

type serviceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type registerUploadResponse struct {
	Value struct {
		Asset           string `json:"asset"`
		UploadMechanism map[string]struct {
			UploadURL string `json:"uploadUrl"`
		} `json:"uploadMechanism"`
	} `json:"value"`
}

const uploadMechanismKey = "com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"

// ugcPost is the creation payload for a published, publicly visible post
// referencing an uploaded image.
type ugcPost struct {
	Author          string         `json:"author"`
	LifecycleState  string         `json:"lifecycleState"`
	SpecificContent map[string]any `json:"specificContent"`
	Visibility      map[string]any `json:"visibility"`
}

// Publish runs the three-step image publish protocol. Each step strictly
// depends on the prior step's output; any failure aborts the remainder
// and names the failed step. Nothing is retried, the calls are not
// idempotency-safe.
func (c *Client) Publish(ctx context.Context, token service.AccessToken, memberID, text string) (*service.PublishedPost, error) {
	uploadURL, assetURN, err := c.registerUpload(ctx, token, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "register upload")
	}

	if err := c.uploadBinary(ctx, token, uploadURL); err != nil {
		return nil, errors.Wrap(err, "upload image")
	}

	postID, err := c.createPost(ctx, token, memberID, text, assetURN)
	if err != nil {
		return nil, errors.Wrap(err, "create post")
	}

	c.logger.Info("Published LinkedIn post",
		slog.String("post_id", postID),
		slog.String("asset", assetURN))

	return &service.PublishedPost{ID: postID, AssetURN: assetURN}, nil
}

func (c *Client) registerUpload(ctx context.Context, token service.AccessToken, memberID string) (uploadURL, assetURN string, err error) {
	var reqBody registerUploadRequest
	reqBody.RegisterUploadRequest.Recipes = []string{"urn:li:digitalmediaRecipe:feedshare-image"}
	reqBody.RegisterUploadRequest.Owner = "urn:li:person:" + memberID
	reqBody.RegisterUploadRequest.ServiceRelationships = []serviceRelationship{
		{RelationshipType: "OWNER", Identifier: "urn:li:userGeneratedContent"},
	}

	var payload registerUploadResponse
	if err := c.postJSON(ctx, token, c.apiBase+"/assets?action=registerUpload", reqBody, &payload); err != nil {
		return "", "", err
	}

	mechanism, ok := payload.Value.UploadMechanism[uploadMechanismKey]
	if !ok || mechanism.UploadURL == "" || payload.Value.Asset == "" {
		return "", "", errors.New("register upload: response missing upload URL or asset")
	}

	return mechanism.UploadURL, payload.Value.Asset, nil
}

func (c *Client) uploadBinary(ctx context.Context, token service.AccessToken, uploadURL string) error {
	imageBytes, contentType, err := c.resolveImageBytes(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(imageBytes))
	if err != nil {
		return errors.Wrap(err, "build upload request")
	}
	req.Header.Set("Authorization", "Bearer "+string(token))
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "binary upload")
	}
	defer resp.Body.Close()

	return checkStatus(resp, "binary upload")
}

func (c *Client) createPost(ctx context.Context, token service.AccessToken, memberID, text, assetURN string) (string, error) {
	post := ugcPost{
		Author:         "urn:li:person:" + memberID,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": text},
				"shareMediaCategory": "IMAGE",
				"media": []map[string]any{
					{"media": assetURN, "status": "READY"},
				},
			},
		},
		Visibility: map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, token, c.apiBase+"/ugcPosts", post, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", errors.New("create post: response missing post id")
	}

	return payload.ID, nil
}

// postJSON issues an authorized Restli POST and decodes the response.
func (c *Client) postJSON(ctx context.Context, token service.AccessToken, url string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+string(token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(restliHeader, restliVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "provider call")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "provider call"); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}

	return nil
}
