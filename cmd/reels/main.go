package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/urfave/cli/v2"
	"github.com/weberc2/reels/pkg/feed"
	"github.com/weberc2/reels/pkg/generation"
	"github.com/weberc2/reels/pkg/objectstore"
	"github.com/weberc2/reels/pkg/observable"
	"github.com/weberc2/reels/pkg/playback"
	"github.com/weberc2/reels/pkg/profile"
	"github.com/weberc2/reels/pkg/session"
	"github.com/weberc2/reels/pkg/types"
	"github.com/weberc2/reels/pkg/videocache"
)

var out = printer{w: os.Stdout}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.App{
		Name:        appName,
		Description: "fetch, play, and generate short videos",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "one of debug, info, warn, error",
				Value: "info",
			},
		},
		Before: func(ctx *cli.Context) error {
			var level slog.Level
			if err := level.UnmarshalText(
				[]byte(ctx.String("log-level")),
			); err != nil {
				return fmt.Errorf("parsing log level: %w", err)
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(
				os.Stderr,
				&slog.HandlerOptions{Level: level},
			)))
			return nil
		},
		Commands: []*cli.Command{{
			Name:        "fetch",
			Description: "sync the local video cache with remote storage",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "watch",
					Usage: "keep fetching every refresh interval",
				},
			},
			Action: withConfig(
				(*Config).ValidateStorage,
				func(c *Config, ctx *cli.Context) error {
					fetcher, err := newFetcher(c, nil)
					if err != nil {
						return err
					}
					if !ctx.Bool("watch") {
						records, err := fetcher.FetchAll(ctx.Context)
						out.Videos(records)
						out.Stats(fetcher.Stats())
						return err
					}

					cancel := fetcher.Videos.Subscribe(
						func(records []types.VideoRecord) {
							if n := len(records); n > 0 {
								out.Video(n-1, records[n-1])
							}
						},
					)
					defer cancel()
					if err := fetcher.Run(
						ctx.Context,
						c.RefreshInterval.Std(),
					); err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				},
			),
		}, {
			Name:        "play",
			Description: "fetch, then loop through the feed with a simulated player",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "clip-length",
					Usage: "how long each simulated clip plays before looping",
					Value: 3 * time.Second,
				},
				&cli.DurationFlag{
					Name:  "dwell",
					Usage: "how long to stay on each video",
					Value: 10 * time.Second,
				},
				&cli.IntFlag{
					Name:  "steps",
					Usage: "how many times to advance the feed",
					Value: 3,
				},
			},
			Action: withConfig((*Config).ValidateStorage, play),
		}, {
			Name:        "generate",
			Description: "request an image-to-video generation task",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "image",
					Usage:    "URL of the prompt image",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "prompt",
					Usage: "prompt text (at most 512 UTF-16 code units)",
				},
				&cli.IntFlag{
					Name:  "duration",
					Usage: "clip duration in seconds (5 or 10)",
					Value: generation.DefaultDuration,
				},
				&cli.StringFlag{
					Name:  "ratio",
					Usage: "output ratio (1280:768 or 768:1280)",
					Value: generation.DefaultRatio,
				},
				&cli.BoolFlag{
					Name:  "watermark",
					Usage: "watermark the output",
				},
			},
			Action: withConfig(
				(*Config).Validate,
				func(c *Config, ctx *cli.Context) error {
					service, err := newGenerationService(c)
					if err != nil {
						return err
					}
					id, err := service.Generate(ctx.Context, generation.Request{
						PromptImage: ctx.String("image"),
						PromptText:  ctx.String("prompt"),
						Watermark:   ctx.Bool("watermark"),
						Duration:    ctx.Int("duration"),
						Ratio:       ctx.String("ratio"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintln(out.w, id)
					return nil
				},
			),
		}, {
			Name:        "task",
			Description: "commands for managing generation tasks",
			Subcommands: []*cli.Command{{
				Name:        "status",
				Description: "print the status of a generation task",
				ArgsUsage:   "TASK_ID",
				Action: withConfig(
					(*Config).Validate,
					func(c *Config, ctx *cli.Context) error {
						service, err := newGenerationService(c)
						if err != nil {
							return err
						}
						status, err := service.TaskStatus(
							ctx.Context,
							generation.TaskID(ctx.Args().First()),
						)
						if err != nil {
							return err
						}
						return out.JSON(status)
					},
				),
			}, {
				Name:        "delete",
				Aliases:     []string{"rm", "remove"},
				Description: "delete a generation task",
				ArgsUsage:   "TASK_ID",
				Action: withConfig(
					(*Config).Validate,
					func(c *Config, ctx *cli.Context) error {
						service, err := newGenerationService(c)
						if err != nil {
							return err
						}
						return service.DeleteTask(
							ctx.Context,
							generation.TaskID(ctx.Args().First()),
						)
					},
				),
			}},
		}, {
			Name:        "login",
			Description: "sign in (or sign up) and print the signed-in user",
			Flags: credentialFlags(&cli.BoolFlag{
				Name:  "register",
				Usage: "create the account before signing in",
			}),
			Action: withConfig(
				(*Config).ValidateAuth,
				func(c *Config, ctx *cli.Context) error {
					s, err := signIn(c, ctx)
					if err != nil {
						return err
					}
					user, err := s.CurrentUser()
					if err != nil {
						return err
					}
					if err := out.JSON(user); err != nil {
						return err
					}
					return s.SignOut(ctx.Context)
				},
			),
		}, {
			Name:        "profile",
			Description: "show or edit the signed-in user's profile",
			Flags: credentialFlags(
				&cli.StringFlag{Name: "username", Usage: "new username"},
				&cli.StringFlag{Name: "bio", Usage: "new bio"},
			),
			Action: withConfig(
				(*Config).ValidateAuth,
				func(c *Config, ctx *cli.Context) error {
					s, err := signIn(c, ctx)
					if err != nil {
						return err
					}
					defer s.SignOut(ctx.Context)

					sess, err := newAWSSession(c)
					if err != nil {
						return err
					}
					editor := profile.NewEditor(
						&profile.DynamoDBStore{
							Client: dynamodb.New(sess),
							Table:  c.ProfilesTable,
						},
						s,
						nil,
						slog.Default().With("component", "PROFILE"),
					)
					if err := editor.Load(ctx.Context); err != nil {
						return err
					}
					if ctx.IsSet("username") || ctx.IsSet("bio") {
						if err := editProfile(ctx, editor); err != nil {
							return err
						}
					}
					out.Profile(editor.View())
					return nil
				},
			),
		}},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func withConfig(
	validate func(*Config) error,
	f func(*Config, *cli.Context) error,
) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		c, err := LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := validate(c); err != nil {
			return err
		}
		return f(c, ctx)
	}
}

func credentialFlags(extra ...cli.Flag) []cli.Flag {
	return append(
		[]cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{
				Name:     "password",
				Required: true,
				EnvVars:  []string{envVarPrefix + "_PASSWORD"},
			},
		},
		extra...,
	)
}

func newAWSSession(c *Config) (*awssession.Session, error) {
	sess, err := awssession.NewSession(&aws.Config{
		Region: aws.String(c.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return sess, nil
}

func newFetcher(
	c *Config,
	dispatcher observable.Dispatcher,
) (*videocache.Fetcher, error) {
	sess, err := newAWSSession(c)
	if err != nil {
		return nil, err
	}
	downloader := objectstore.DefaultDownloader()
	return &videocache.Fetcher{
		Store: &objectstore.S3BlobStore{
			Client: s3.New(sess),
			Bucket: c.Bucket,
		},
		Downloader:       &downloader,
		FS:               videocache.OSFileSystem{},
		Videos:           observable.NewCollection[types.VideoRecord](dispatcher),
		Logger:           slog.Default().With("component", "FETCHER"),
		Container:        c.Container,
		CacheDir:         c.CacheDir,
		OperationTimeout: c.OperationTimeout.Std(),
		TimeFunc:         time.Now,
	}, nil
}

func newGenerationService(c *Config) (*generation.Service, error) {
	sess, err := newAWSSession(c)
	if err != nil {
		return nil, err
	}
	return generation.NewService(
		&generation.LambdaFunctions{
			Client: lambda.New(sess),
			Prefix: c.FunctionPrefix,
		},
		nil,
		slog.Default().With("component", "GENERATION"),
	), nil
}

func signIn(c *Config, ctx *cli.Context) (*session.Session, error) {
	provider := session.DefaultProvider(string(c.AuthBaseURL))
	s := session.NewSession(
		&provider,
		nil,
		slog.Default().With("component", "SESSION"),
	)
	email, password := ctx.String("email"), ctx.String("password")
	if ctx.Bool("register") {
		if err := s.SignUp(ctx.Context, email, password); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.SignIn(ctx.Context, email, password); err != nil {
		return nil, err
	}
	return s, nil
}

func editProfile(ctx *cli.Context, editor *profile.Editor) error {
	if err := editor.ToggleEdit(ctx.Context); err != nil {
		return err
	}
	if ctx.IsSet("username") {
		if err := editor.SetUsername(
			strings.TrimSpace(ctx.String("username")),
		); err != nil {
			return err
		}
	}
	if ctx.IsSet("bio") {
		if err := editor.SetBio(ctx.String("bio")); err != nil {
			return err
		}
	}
	return editor.ToggleEdit(ctx.Context)
}

// play drives the feed from a single main loop, the way a UI would: the
// collection, the controller, and end-of-media events all publish through
// it. The feed starts following the collection before the fetch so that
// playback begins with the first cached video.
func play(c *Config, ctx *cli.Context) error {
	var loop observable.MainLoop
	loopCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()
	go loop.Run(loopCtx)

	fetcher, err := newFetcher(c, &loop)
	if err != nil {
		return err
	}

	player := &clockPlayer{
		ClipLength: ctx.Duration("clip-length"),
		Dispatcher: &loop,
		Logger:     slog.Default().With("component", "PLAYER"),
	}
	controller := playback.NewController(
		player,
		&loop,
		slog.Default().With("component", "CONTROLLER"),
	)
	cancelStatus := controller.Subscribe(out.Status)
	defer cancelStatus()

	f := feed.NewFeed(
		fetcher.Videos,
		controller,
		slog.Default().With("component", "FEED"),
	)
	defer f.Close()

	if _, err := fetcher.FetchAll(ctx.Context); err != nil {
		return err
	}
	out.Stats(fetcher.Stats())

	dwell := time.NewTicker(ctx.Duration("dwell"))
	defer dwell.Stop()
	for step := 0; step < ctx.Int("steps"); step++ {
		select {
		case <-ctx.Context.Done():
			return nil
		case <-dwell.C:
			f.Handle(feed.Gesture{Kind: feed.GestureTap, X: 1, Width: 1})
		}
	}
	return nil
}
