package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/artx/internal/services"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/urfave/cli/v3"
)

// serviceBase resolves a source name to its API base URL.
func serviceBase(name string) (string, error) {
	switch name {
	case services.SourceMusicBrainz, "mb":
		return services.MusicBrainzBase, nil
	case services.SourceAudioDB, "adb":
		return services.AudioDBBase, nil
	case services.SourceYouTube, "yt":
		return services.YouTubeBase, nil
	default:
		return "", fmt.Errorf("%w: unknown service %q", shared.ErrInvalidArgument, name)
	}
}

// APIGet makes a direct GET request to one of the upstream sources.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	base, err := serviceBase(cmd.String("service"))
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "base", base, "path", path)

	api := services.NewAPIService(base, r.httpClient)
	resp, err := api.Get(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !useJSON)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIDump probes every source endpoint and reports reachability.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Info("probing source endpoints")
	r.writePlain("Probing upstream sources...\n\n")

	engine := r.engine(nil)
	result, err := engine.Dump(ctx, nil)
	if err != nil {
		return err
	}

	for _, status := range result.Statuses {
		r.writePlain("✓ %s (%d)\n", status.Name, status.Status)
	}
	for _, failure := range result.Errors {
		message := failure.Error
		if message == "" {
			message = fmt.Sprintf("status %d", failure.Status)
		}
		r.writePlain("✗ %s: %s\n", failure.Name, message)
	}
	r.writePlain("\n")

	if save {
		data, err := shared.MarshalJSON(result, true)
		if err != nil {
			return err
		}
		if err := os.WriteFile("api_dump.json", data, 0644); err != nil {
			return fmt.Errorf("failed to save dump: %w", err)
		}
		r.logger.Info("dump saved", "path", "api_dump.json")
		return nil
	}

	return r.writeJSON(result, pretty)
}
