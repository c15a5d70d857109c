package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Roster --dir ../domain/player --output domain/player --outpkg playermock --filename roster_mock.go
