// Package server は、ディレクトリ以下のファイルを配信するHTTPサーバーを管理します。
//
// このパッケージは、リッスンソケットの管理、GET/HEADによるファイル配信、
// キャッシュ無効化ヘッダーの付与、アクセスログの出力を担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - ルートディレクトリ以下のファイルとディレクトリ一覧の配信
//   - 全てのレスポンスへの Cache-Control / Pragma / Expires の付与
//   - 1リクエスト1行のアクセスログ出力
//
// 仕様:
//   - ginのエンジンとnet/httpのファイル配信を使用
//   - ルートディレクトリは明示的に渡し、作業ディレクトリは変更しない
//   - グレースフルシャットダウンに対応
//   - 複数クライアントの同時接続をサポート
package server
