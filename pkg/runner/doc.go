/*
Package runner provides the terminal I/O used by the interactive chat loop and
the input sanitizer shared by every inbound surface (CLI, HTTP, MCP).

# Key Components

  - SanitizeInput: size limit, UTF-8 validation and control character stripping.
  - TextHandler: reads lines from a reader and prints replies, optionally
    through a markdown renderer.
*/
package runner
