package handlers

// @title Merchant Business Intelligence API
// @version 1.0
// @description Revenue, ranking and customer relationship queries over a merchant sales ledger

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @tag.name business-intelligence
// @tag.description Revenue, ranking and customer relationship queries

// @tag.name merchants
// @tag.description Merchant lookups

// @tag.name invoice-items
// @tag.description Invoice item searches
