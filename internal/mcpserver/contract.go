package mcpserver

// EntryFormatContract describes the files quill creates so LLM consumers
// can fill them in without breaking their structure.
const EntryFormatContract = `# Quill Entry Format

Quill creates two kinds of Markdown entries. Both start with a YAML
frontmatter block delimited by ` + "`---`" + ` lines. Timestamps use the form
` + "`2024-01-05T00:00:00+09:00`" + ` and always carry a numeric UTC offset.

## Note entries

File name: ` + "`<identifier>.md`" + `, where the identifier is a ULID (default)
or a version 7 UUID. Identifiers sort by creation time.

` + "```" + `markdown
---
created_at: 2024-03-15T09:12:44+09:00
updated_at: 2024-03-15T09:12:44+09:00
title:
tags:
---
` + "```" + `

Fill in ` + "`title`" + ` and ` + "`tags`" + ` and append the body after the block.

## Diary entries

File name: ` + "`YYYYMM.md`" + `, one file per calendar month. After the
frontmatter (` + "`created_at`" + `, ` + "`updated_at`" + ` only) there is one
section per day:

` + "```" + `markdown
###### 2024-03-01-friday

　
` + "```" + `

The heading holds the date and the lowercase English weekday. The line
below it holds a single full-width space; replace it with the day's text.

## Rules

1. Do not rename entries; names encode the month or creation time.
2. Keep the frontmatter keys; ` + "`updated_at`" + ` may be rewritten on edit.
3. A new diary file covers the month after the latest existing one, or the
   current month when the latest one is in the past.
`
