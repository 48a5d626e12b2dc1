package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with nuke",
		Content: topicQuickstart,
	},
	{
		Name:    "tools",
		Title:   "Tools File Reference",
		Summary: "Layout of .nuke/tools.yaml: tools, commands, options, schemas",
		Content: topicTools,
	},
	{
		Name:    "kinds",
		Title:   "Option Kinds",
		Summary: "Scalar, list, map, multimap, nested and nested-list options",
		Content: topicKinds,
	},
	{
		Name:    "ordering",
		Title:   "Argument Ordering",
		Summary: "How positions, containers and declaration order decide output order",
		Content: topicOrdering,
	},
	{
		Name:    "mutations",
		Title:   "Command-Line Mutations",
		Summary: "--set, --add, --entry and friends",
		Content: topicMutations,
	},
	{
		Name:    "presets",
		Title:   "Presets",
		Summary: "Conditional default values written in CEL",
		Content: topicPresets,
	},
	{
		Name:    "formatters",
		Title:   "Formatters",
		Summary: "Built-in and expression formatters for option values",
		Content: topicFormatters,
	},
	{
		Name:    "secrets",
		Title:   "Secrets and Redaction",
		Summary: "How secret values are masked in logs, history and render output",
		Content: topicSecrets,
	},
	{
		Name:    "docker",
		Title:   "Running in Docker",
		Summary: "Running a tool inside a container with run --image",
		Content: topicDocker,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-project
    nuke init

   This creates .nuke/tools.yaml with an example dotnet tool.

2. Describe the tools you call and the options each command accepts.
   Run 'nuke docs tools' for the file layout.

3. Preview the arguments without running anything:

    nuke render dotnet build --set project=app.csproj --set nologo=true

4. Run for real:

    nuke run dotnet build --set configuration=Release

5. Look at what ran:

    nuke history
`

const topicTools = `Tools File Reference
====================

nuke reads .nuke/tools.yaml from the project root. The project root is the
nearest parent directory of the working directory that contains it.

    formatters:
      <name>: <expression>        # see 'nuke docs formatters'

    tools:
      - name: dotnet              # required, unique
        description: .NET SDK
        executable: dotnet        # defaults to name
        env:                      # extra variables, $VAR expanded
          DOTNET_ROOT: $PROJECT_ROOT/.dotnet
        commands:
          - name: build           # required, unique per tool
            description: ...
            arguments: build      # fixed leading arguments, shell quoted
            timeout: 30           # minutes, 0 means none
            options: [...]
            presets: [...]        # see 'nuke docs presets'
        schemas:                  # named option sets for nested options
          - name: runsettings
            options: [...]

Option fields
-------------

    name          required, no whitespace
    kind          scalar | list | map | multimap | nested | nested-list
    description   shown by 'nuke tools -v'
    format        argument template; {value} and {key} are substituted
    alt-format    template used when a scalar is true
    empty-format  template used when a collection is present but empty
    position      explicit output slot, see 'nuke docs ordering'
    secret        mask values in logs and history
    separator     join list items into a single argument
    formatter     name of a formatter applied to each value
    container     group options that render together
    schema        schema name for nested and nested-list options

Templates are split on whitespace before substitution, so a value
containing spaces stays one argument:

    format: "--configuration {value}"   ->  --configuration, Release Build

The default format is "{value}" for scalars and lists, "{key}={value}" for
maps and multimaps, and empty for nested options.

The executable is looked up on PATH. Set <NAME>_EXE to override it, for
example DOTNET_EXE=/opt/dotnet/dotnet.
`

const topicKinds = `Option Kinds
============

scalar
    A single value. Booleans are special: a format without {value} emits
    the bare flag when true and nothing when false. alt-format, when set,
    is used instead of format for true.

list
    Ordered items. Each item is rendered with format. With a separator the
    items are joined into one value and rendered once:

        format: "--flags {value}"  separator: ","   ->  --flags a,b

map
    Ordered key/value entries, one format per entry. Keys are unique;
    'add-entry' fails on an existing key, 'entry' replaces it.

multimap
    Each key holds an ordered list of values. Without a separator each
    key/value pair is rendered; with one, the values of a key are joined.
    Keys whose list is empty are skipped.

nested
    Another store of options, rendered in place. format, if set, is a
    prefix emitted before the nested arguments. An empty nested store
    emits nothing.

nested-list
    A list of nested stores, each rendered in turn with the prefix.

Collections have three states: absent (never set, renders nothing),
present but empty (renders empty-format if set) and non-empty. '--reset'
makes an option absent again; '--clear' makes it present and empty.
`

const topicOrdering = `Argument Ordering
=================

Options render in this order:

  1. Options with a position of 0 or more, ascending.
  2. Options without a position, in declaration order.
  3. Options with a negative position, ascending, so -1 is last.

Options sharing a container render together at the slot of the first
declared member, in declaration order. Ties between equal positions are
broken by declaration order.

Nested stores are rendered recursively with the same rules and spliced in
where the nested option sits.
`

const topicMutations = `Command-Line Mutations
======================

'nuke render' and 'nuke run' accept edits applied after presets, in the
order given:

    --set NAME=VALUE             set a scalar, or replace a list (comma separated)
    --reset NAME                 make NAME absent
    --add NAME=VALUE             append a list item
    --remove NAME=VALUE          remove the first equal list item
    --clear NAME                 make a collection present and empty
    --entry NAME:KEY=VALUE       set a map entry
    --add-entry NAME:KEY=VALUE   add a map entry, failing if KEY exists
    --remove-entry NAME:KEY      remove a map entry or multimap key
    --values NAME:KEY=V1,V2      replace the values of a multimap key
    --add-values NAME:KEY=V1,V2  append to a multimap key
    --remove-value NAME:KEY=V    remove one value of a multimap key

The literals true and false are booleans. Everything else is a string.
Removing from an option that was never set is not an error.
`

const topicPresets = `Presets
=======

Presets apply values before command-line mutations. They run in
declaration order and every matching preset applies.

    presets:
      - set:                      # no 'when': always applies
          configuration: Debug
      - when: 'os == "windows" && arch == "arm64"'
        set:
          runtime: win-arm64
      - when: '"CI" in env'
        add:
          sources: [https://api.nuget.org/v3/index.json]
        entries:
          properties:
            ContinuousIntegrationBuild: true

'when' is a CEL expression that must evaluate to a bool. Variables:

    os     runtime OS (linux, darwin, windows)
    arch   runtime architecture (amd64, arm64)
    env    map of environment variables

'set' accepts scalars, lists and maps. 'add' appends to lists. 'entries'
sets map entries or appends multimap values.
`

const topicFormatters = `Formatters
==========

A formatter turns each value into its argument text before the template is
expanded. Built-ins:

    lower     lower-cases the value
    upper     upper-cases the value
    msbuild   escapes MSBuild special characters (% ; , $ @ ') and writes
              booleans as true/false

Custom formatters are expr expressions declared at the top of the tools
file:

    formatters:
      verbosity: 'value == "q" ? "quiet" : value'
      trait: 'key + ":" + upper(string(value))'

Available variables are value, key (empty for scalars and lists) and
option (the option name). The result is converted to a string.
`

const topicSecrets = `Secrets and Redaction
=====================

Options marked 'secret: true' have their values replaced by [REDACTED]
wherever arguments are shown: 'nuke render', the run header, the log file
and history.json. Keys and templates are kept, so the shape of the command
line stays visible:

    --api-key [REDACTED]
    --env TOKEN=[REDACTED]

A secret nested option masks every value inside it. The real values are
only ever passed to the process itself.

'nuke render --show-secrets' prints the unmasked arguments.
`

const topicDocker = `Running in Docker
=================

    nuke run dotnet build --image mcr.microsoft.com/dotnet/sdk:8.0

The project root is mounted at /build (c:\Build for Windows images) and
used as the working directory. The image is pulled when it is not present
locally, or always with --pull.

The container receives the host environment minus host-specific paths
(HOME, PATH, TEMP and similar), the tool's env block, and
NUKE_RUNNING_IN_DOCKER=1. TEMP points at .nuke/temp under the mount.
Variables are passed through a temporary env file that is deleted after
the run. Use --env-file to merge extra dotenv files.

The docker executable is resolved like any tool; DOCKER_EXE overrides it.
`
