package mcpserver

// StorageFormatContract describes how notebooks are stored on disk so that
// LLM consumers know what the tools read and write.
const StorageFormatContract = `# Notebook Storage Format

Each notebook is a single file ` + "`" + `<notes dir>/<name>.json` + "`" + `.

## Structure

The file holds one JSON object. Keys are note titles, values are note bodies.
Both are arbitrary strings. Files are written with 4-space indentation and no
trailing newline:

` + "```" + `json
{
    "todo": "buy milk",
    "call": "mom"
}
` + "```" + `

An empty notebook is ` + "`" + `{}` + "`" + `.

## Rules

1. **Notebook names** are file stems. They must not be empty, ` + "`" + `.` + "`" + `, ` + "`" + `..` + "`" + `,
   or contain ` + "`" + `/` + "`" + ` or ` + "`" + `\` + "`" + `.
2. **Titles** are unique within a notebook. Creating a note with an existing
   title replaces its body. Renaming onto an existing title replaces that note.
3. **Order** of notes follows the file and new notes are appended.
4. **Every change** rewrites the whole file.
5. **Missing files** load as empty notebooks. Malformed JSON is an error.

## Tools

- ` + "`" + `list_notebooks` + "`" + `, ` + "`" + `create_notebook` + "`" + `
- ` + "`" + `list_notes` + "`" + `, ` + "`" + `read_note` + "`" + `, ` + "`" + `create_note` + "`" + `, ` + "`" + `edit_note` + "`" + `
- ` + "`" + `rename_note` + "`" + ` and ` + "`" + `delete_note` + "`" + ` fail when the title does not exist.
  ` + "`" + `edit_note` + "`" + ` creates a missing note.
`
