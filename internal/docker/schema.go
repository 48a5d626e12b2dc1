package docker

import "github.com/dansiegel/nuke/internal/options"

// RunSchema describes the `docker run` options used to launch a target in a
// container. Image, command and args render last, in that order.
var RunSchema = options.NewSchema("docker run").MustDeclare(
	options.Option{Name: "rm", Kind: options.KindScalar, Format: "--rm"},
	options.Option{Name: "name", Kind: options.KindScalar, Format: "--name {value}"},
	options.Option{Name: "platform", Kind: options.KindScalar, Format: "--platform {value}"},
	options.Option{Name: "workdir", Kind: options.KindScalar, Format: "--workdir {value}"},
	options.Option{Name: "env-file", Kind: options.KindScalar, Format: "--env-file {value}"},
	options.Option{Name: "volumes", Kind: options.KindList, Format: "--volume {value}"},
	options.Option{Name: "env", Kind: options.KindMap, Format: "--env {key}={value}", Secret: true},
	options.Option{Name: "labels", Kind: options.KindMap, Format: "--label {key}={value}"},
	options.Option{Name: "image", Kind: options.KindScalar, Position: options.At(-3)},
	options.Option{Name: "command", Kind: options.KindScalar, Position: options.At(-2)},
	options.Option{Name: "args", Kind: options.KindList, Position: options.At(-1)},
).Seal()

// ImageSchema covers `docker image inspect` and `docker pull`.
var ImageSchema = options.NewSchema("docker image").MustDeclare(
	options.Option{Name: "quiet", Kind: options.KindScalar, Format: "--quiet"},
	options.Option{Name: "platform", Kind: options.KindScalar, Format: "--platform {value}"},
	options.Option{Name: "image", Kind: options.KindScalar, Position: options.At(-1)},
).Seal()
