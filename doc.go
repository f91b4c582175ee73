// Package coffer models a multi-account investment portfolio and the
// analysis that can be run over it. It is built around a small set of
// validated value types, so that data decoded from brokerage exports is
// either rejected at the boundary or safe everywhere.
//
// The core functionalities include:
//   - A money model: fixed-scale decimal Cash in a closed set of
//     currencies, with arithmetic that refuses to mix currencies.
//   - Instruments: stocks, bonds, options, future options, futures and
//     forex pairs, each with a validated identity.
//   - Account data: positions with their cost basis, trade and cash
//     payment activity, and per-currency cash balances, aggregated
//     across any number of account sources.
//   - Analysis: realized basis per symbol, per-symbol timelines,
//     position deduplication, live mark-to-market valuation through a
//     pluggable quote provider, and currency conversion.
//
// This package serves as the foundational logic for the `coffer`
// command-line tool; the brokers and market data subpackages plug into
// it through the AccountSource and QuoteProvider interfaces.
package coffer
