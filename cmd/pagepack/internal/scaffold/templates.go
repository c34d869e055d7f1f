package scaffold

// pageTemplate is the shell parsed by the bundler when emitting a page,
// so the placeholders use Go template syntax.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  {{range .Styles}}<link rel="stylesheet" href="{{.}}">
  {{end}}</head>
<body>
  <div id="app"></div>
  {{range .Scripts}}<script type="module" src="{{.}}"></script>
  {{end}}</body>
</html>
`

const stylesTemplate = `:root {
  --page-background: #f5f6f8;
  --page-foreground: #212121;
}

body {
  margin: 0;
  background: var(--page-background);
  color: var(--page-foreground);
  font-family: system-ui, sans-serif;
}
`

const logoTemplate = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="24" height="24">
  <rect width="24" height="24" rx="4" fill="#1565c0"/>
  <path d="M6 12h12M12 6v12" stroke="#fff" stroke-width="2" stroke-linecap="round"/>
</svg>
`

const eslintTemplate = `{
  "env": {
    "browser": true,
    "es2022": true
  },
  "parserOptions": {
    "ecmaVersion": "latest",
    "sourceType": "module"
  },
  "extends": "eslint:recommended"
}
`
