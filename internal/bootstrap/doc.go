// Package bootstrap provisions a new Vite project published on GitHub
// Pages. The run is a fixed sequence of steps:
//
//  1. preflight: node/npm present, target directory free
//  2. generate: npm create vite@latest <name> -- --template <t>
//  3. patch-vite-config: declare base: '/<repo>/'
//  4. patch-package-json: predeploy/deploy scripts and homepage
//  5. install and install-pages: npm install, npm install --save-dev gh-pages
//  6. commit, remote, push: go-git (or the git CLI for push)
//  7. deploy: npm run deploy
//
// A failed step stops the run; earlier steps are not undone.
package bootstrap
